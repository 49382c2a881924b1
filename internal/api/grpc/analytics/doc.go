// Package analytics exposes the latest analytics snapshot over gRPC.
//
// The service proctor.v1.Analytics has a single unary method GetSnapshot that
// takes google.protobuf.Empty and returns the snapshot in the backend wire
// shape as a google.protobuf.Struct, so downstream monitors can chain off one
// upstream poller without a generated stub.
package analytics
