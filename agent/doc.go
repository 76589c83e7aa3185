/*
Package agent holds the packages of the agent to agent message pipeline. The
package itself is empty, all the functionality is in the sub-packages:

	comm       handler registry and the context handlers get
	connection connection record and its state machine
	didcomm    message header and the wire codec with the type table
	pairwise   connection storage with optimistic locking
	pltype     message type strings and their normalization
	prot       message processor, the pipeline from bytes to handler
	sec        envelope crypto: pack, unpack and the forward wrapping
	ssi        key wallet, signing and box encryption
	storage    bolt and memory storage providers
	trans      outbound http transport
	utils      settings and small helpers
*/
package agent
