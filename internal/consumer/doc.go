// Package consumer feeds the relay from a Kafka topic.
//
// Each record value is a JSON Pub/Sub message object, the same shape as the
// "message" member of a push request. Records are committed once handled,
// whether or not handling succeeded: there is no retry and no dead-letter
// topic, matching the push path.
package consumer
