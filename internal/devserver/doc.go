// Package devserver serves the current route table while watch mode
// regenerates it.
//
// Endpoints:
//
//	GET /routes   route_map.json of the last successful run
//	GET /healthz  liveness
//	GET /metrics  Prometheus metrics, when configured
//	GET /ws       websocket; one Message per finished run
package devserver
