/*
Package common has the messages which are shared by all the protocols: the
routing forward envelope, the problem report and the ack.
*/
package common
