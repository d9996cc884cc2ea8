package trap

import "rvos/kernel/kfmt"

// System call numbers.
const (
	SysWrite = 64
	SysExit  = 93
)

const fdStdout = 1

func dispatchSyscall(id, a0, a1, a2 uint64) int64 {
	switch id {
	case SysWrite:
		return sysWrite(a0, uintptr(a1), uintptr(a2))
	case SysExit:
		sysExit(int32(a0))
		return 0
	default:
		kfmt.Printf("[kernel] Unsupported syscall_id: %d, kernel killed it.\n", id)
		advancer.Advance(Outcome{Kind: Faulted, Cause: UserEnvCall})
		return -1
	}
}

// sysWrite copies size bytes at buf to the console. Only stdout is supported
// and the buffer must be owned by the running application.
func sysWrite(fd uint64, buf, size uintptr) int64 {
	if fd != fdStdout {
		return -1
	}

	data, ok := advancer.UserBuffer(buf, size)
	if !ok {
		return -1
	}

	kfmt.Printf("%s", data)
	return int64(size)
}

func sysExit(code int32) {
	kfmt.Printf("[kernel] Application exited with code %d\n", code)
	advancer.Advance(Outcome{Kind: Exited, ExitCode: code})
}
