package trap

// interruptBit is set in scause when the trap was caused by an interrupt.
const interruptBit = uint64(1) << 63

// Cause is the exception code reported in scause for synchronous traps.
type Cause uint64

// Exception codes defined by the privileged architecture.
const (
	InstructionMisaligned = Cause(0)
	InstructionFault      = Cause(1)
	IllegalInstruction    = Cause(2)
	Breakpoint            = Cause(3)
	LoadMisaligned        = Cause(4)
	LoadFault             = Cause(5)
	StoreMisaligned       = Cause(6)
	StoreFault            = Cause(7)
	UserEnvCall           = Cause(8)
	InstructionPageFault  = Cause(12)
	LoadPageFault         = Cause(13)
	StorePageFault        = Cause(15)
)

// String returns the name of the exception.
func (c Cause) String() string {
	switch c {
	case InstructionMisaligned:
		return "InstructionMisaligned"
	case InstructionFault:
		return "InstructionFault"
	case IllegalInstruction:
		return "IllegalInstruction"
	case Breakpoint:
		return "Breakpoint"
	case LoadMisaligned:
		return "LoadMisaligned"
	case LoadFault:
		return "LoadFault"
	case StoreMisaligned:
		return "StoreMisaligned"
	case StoreFault:
		return "StoreFault"
	case UserEnvCall:
		return "UserEnvCall"
	case InstructionPageFault:
		return "InstructionPageFault"
	case LoadPageFault:
		return "LoadPageFault"
	case StorePageFault:
		return "StorePageFault"
	default:
		return "UnknownException"
	}
}
