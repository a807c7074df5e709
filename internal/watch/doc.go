// Package watch reruns generation when ArkTS sources change.
//
// Events are debounced: a burst of saves produces one callback once the
// tree has been quiet for the debounce interval. The callback runs on the
// watch goroutine, so runs are serialized.
package watch
