// Package messaging provides a broker-agnostic publish layer.
//
// The service only produces messages (lifecycle audit events); there is no
// consume path. Implementations wrap Kafka, NATS, NSQ and Google Pub/Sub
// behind the Publisher interface, with a no-op fallback for deployments that
// run without a broker.
package messaging
