package decorator

func NewThread(ID, PID string) *Thread {
	realPID := ""
	if ID != PID {
		realPID = PID
	}
	return &Thread{ID: ID, PID: realPID}
}

// ReplyThread returns the thread of a reply to the message msgID which has
// the thread. The reply keeps the parent thread ID, and the argument isn't
// modified.
func ReplyThread(thread *Thread, msgID string) *Thread {
	reply := &Thread{ID: ThreadID(thread, msgID)}
	if thread != nil {
		reply.PID = thread.PID
	}
	return reply
}

// ThreadID returns the ID of the conversation the message belongs to. If the
// message doesn't have a thread it starts a new one, i.e. its own @id is the
// thread ID.
func ThreadID(thread *Thread, msgID string) string {
	if thread != nil && thread.ID != "" {
		return thread.ID
	}
	return msgID
}
