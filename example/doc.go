/*
Package main contains a command-line example for gxstream.

The example shows how to:
  - configure a serial or TCP stream from command-line flags or a YAML file
  - log line, state, error and trace events with zerolog
  - poll the media with a Driver until SIGINT or SIGTERM
  - send a line and control the media over a small HTTP interface
*/
package main
