// Package params collects the variables exposed to the registration template
// as .Vars.
//
// Variables come from three places, merged lowest priority first:
//   - the vars: map in arkroute.yaml
//   - --vars-file files in .env format
//   - --var key=value flags
//
// Later sources override earlier ones key by key.
package params
