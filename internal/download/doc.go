// Package download implements the bulk download queue. It admits tasks,
// dispatches them under a concurrency cap, resolves their captions, drives
// the transfer simulation and hands finished tasks to the file emitter.
package download
