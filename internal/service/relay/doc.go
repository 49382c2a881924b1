// Package relay serves the latest analytics snapshot to other monitors over gRPC.
//
// A monitor with relay_address set stores every fetched snapshot and answers
// proctor.v1.Analytics/GetSnapshot, so a second observer can run with
// source: grpc against it instead of hitting the detection backend.
package relay
