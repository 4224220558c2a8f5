package vm

import "github.com/fuelvm-go/fuelvm/asm"

// execute routes a decoded instruction to the handler for its category.
// jumped reports whether PC was already updated by the handler (a taken
// branch or a call/return), in which case Step must not also advance it.
func (vm *Interpreter) execute(in asm.Instruction) (jumped bool, p *Panic) {
	switch in.Op {
	case asm.ADD, asm.AND, asm.DIV, asm.EQ, asm.EXP, asm.GT, asm.LT, asm.MLOG,
		asm.MROO, asm.MOD, asm.MOVE, asm.MUL, asm.NOT, asm.OR, asm.SLL,
		asm.SRL, asm.SUB, asm.XOR:
		if p := vm.chargeGas(vm.params.GasCosts.Arithmetic); p != nil {
			return false, p
		}
		return false, vm.execALU(in)

	case asm.ADDI, asm.ANDI, asm.DIVI, asm.EXPI, asm.MODI, asm.MULI, asm.ORI,
		asm.SLLI, asm.SRLI, asm.SUBI, asm.XORI:
		if p := vm.chargeGas(vm.params.GasCosts.Arithmetic); p != nil {
			return false, p
		}
		return false, vm.execALUI(in)

	case asm.CIMV, asm.CTMV, asm.RET, asm.RETD, asm.RVRT, asm.NOOP, asm.FLAG,
		asm.JMP, asm.JNE, asm.JNEI, asm.JNZI, asm.JI, asm.CFEI, asm.CFSI:
		return vm.execControl(in)

	case asm.ALOC, asm.MCL, asm.MCP, asm.MEQ, asm.MCLI, asm.MCPI, asm.LB,
		asm.LW, asm.SB, asm.SW, asm.GM:
		return false, vm.execMemory(in)

	case asm.BHSH, asm.BHEI, asm.BURN, asm.CALL, asm.CCP, asm.CROO, asm.CSIZ,
		asm.CB, asm.LDC, asm.LOG, asm.LOGD, asm.MINT, asm.SLDC, asm.TR,
		asm.TRO, asm.BAL, asm.SMO, asm.TIME, asm.BSIZ, asm.BLDD, asm.GTF,
		asm.ECAL:
		return vm.execContract(in)

	case asm.SRW, asm.SRWQ, asm.SWW, asm.SWWQ:
		return false, vm.execStorage(in)

	case asm.ECR, asm.K256, asm.S256, asm.ECK1, asm.ECR1, asm.ED19:
		return false, vm.execCrypto(in)

	case asm.XIL, asm.XIS, asm.XOL, asm.XOS, asm.XWL, asm.XWS, asm.WDCM,
		asm.WQCM, asm.WDOP, asm.WQOP, asm.WDML, asm.WQML, asm.WDDV, asm.WQDV,
		asm.WDMD, asm.WQMD, asm.WDAM, asm.WQAM, asm.WDMM, asm.WQMM:
		return false, vm.execWide(in)
	}
	return false, newPanic(asm.PanicReasonInvalidImmediateValue, in)
}

// raWriters lists every opcode whose RA operand is a destination register,
// as opposed to an address, a value to emit, or an unused operand. Checked
// once per instruction so a write to a reserved register always panics
// regardless of which handler would otherwise run.
var raWriters = map[asm.Opcode]bool{
	asm.ADD: true, asm.AND: true, asm.DIV: true, asm.EQ: true, asm.EXP: true,
	asm.GT: true, asm.LT: true, asm.MLOG: true, asm.MROO: true, asm.MOD: true,
	asm.MOVE: true, asm.MUL: true, asm.NOT: true, asm.OR: true, asm.SLL: true,
	asm.SRL: true, asm.SUB: true, asm.XOR: true,

	asm.ADDI: true, asm.ANDI: true, asm.DIVI: true, asm.EXPI: true,
	asm.MODI: true, asm.MULI: true, asm.ORI: true, asm.SLLI: true,
	asm.SRLI: true, asm.SUBI: true, asm.XORI: true,

	asm.CIMV: true, asm.CTMV: true,

	asm.MEQ: true, asm.LB: true, asm.LW: true, asm.GM: true,

	asm.BHEI: true, asm.CSIZ: true, asm.BAL: true, asm.TIME: true,
	asm.BSIZ: true, asm.GTF: true, asm.SRW: true,

	asm.WDCM: true, asm.WQCM: true,

	asm.ED19: true,
}

func writesToRA(op asm.Opcode) bool {
	return raWriters[op]
}
