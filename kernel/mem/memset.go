package mem

// Memset sets every byte of buf to value. Instead of looping over each byte
// it seeds the first element and then doubles the initialized prefix with
// log2(len(buf)) copy calls.
func Memset(buf []byte, value byte) {
	if len(buf) == 0 {
		return
	}

	buf[0] = value
	for filled := 1; filled < len(buf); filled *= 2 {
		copy(buf[filled:], buf[:filled])
	}
}
