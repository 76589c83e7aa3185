/*
Package protocol is the parent of the protocol handlers. Each subpackage
implements comm.Handler for the message types of one protocol family, and
the message structs are in the std packages. Handlers get the decoded message
with the connection it came from, and their return value is the reply to
send to the other end.
*/
package protocol
