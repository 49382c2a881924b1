// Package snapshot implements retrieval of analytics snapshots.
//
// A Source performs exactly one fetch per call. HTTPSource polls the detection
// backend's JSON endpoint; GRPCSource reads from another monitor's relay.
// Failures wrap ErrTransport or ErrFormat so the poll loop can tell them apart.
package snapshot
