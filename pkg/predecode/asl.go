package predecode

const (
	aslSender  = "Sender "
	aslMessage = "Message "
	aslHost    = "Host "
)

// aslFields walks "[Key value]" fields of an OSX ASL record starting at pos
// Only the first Sender and Message are honored, even when empty. A repeated
// field is a sign of tampering and must not replace the first one
func aslFields(v view, pos int) (host, program, log span) {
	log = span{pos, v.len()}
	var sender, done bool

	next := v.indexByteFrom(pos, '[')
	for next >= 0 {
		pos = next + 1
		switch {
		case !sender && v.hasPrefixAt(pos, aslSender):
			pos += len(aslSender)
			sender = true
			end := v.indexByteFrom(pos, ']')
			if end < 0 {
				return host, span{}, log
			}
			program = span{pos, end}
			pos = end + 1

		case !done && v.hasPrefixAt(pos, aslMessage):
			pos += len(aslMessage)
			done = true
			end := v.indexByteFrom(pos, ']')
			if end < 0 {
				return host, program, span{pos, v.len()}
			}
			log = span{pos, end}
			pos = end + 1

		case v.hasPrefixAt(pos, aslHost):
			pos += len(aslHost)
			if end := v.indexByteFrom(pos, ']'); end >= 0 {
				host = span{pos, end}
			}
			return host, program, log
		}
		next = v.indexByteFrom(pos, '[')
	}
	return host, program, log
}
