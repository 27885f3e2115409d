// Package airbyte implements the Airbyte protocol for building source and destination
// connectors in go.
// It abstracts the wire protocol away from connector code so it can focus on business
// logic, and stays strongly typed wherever the protocol permits.
package airbyte
