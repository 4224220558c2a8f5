package vm

import (
	"encoding/binary"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/crypto"
	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
)

// execContract dispatches the opcodes that touch other contracts, the
// consensus-owned balance/output tables, block metadata, and transaction
// introspection. Everything here except GTF is forbidden in predicate
// context; Step
// already rejects these opcodes before execute is reached when
// predicateMode is set, via Opcode.IsPredicateAllowed.
func (vm *Interpreter) execContract(in asm.Instruction) (jumped bool, p *Panic) {
	switch in.Op {
	case asm.BHSH:
		// No block history is retained by a single-transaction interpreter;
		// any requested height resolves to the zero hash.
		if pp := vm.writeMem(in, vm.regs.Get(in.RA), make([]byte, 32)); pp != nil {
			return false, pp
		}
		return false, nil

	case asm.BHEI:
		vm.regs.Set(in.RA, vm.blockHeight)
		return false, nil

	case asm.BURN:
		return false, vm.execMint(in, false)

	case asm.MINT:
		return false, vm.execMint(in, true)

	case asm.CALL:
		return vm.execCall(in)

	case asm.CCP:
		return false, vm.execCodeCopy(in, vm.params.GasCosts.CCP)

	case asm.LDC, asm.SLDC:
		// SLDC (load-by-state-root) has no separate index in this storage
		// model, so it resolves code by contract id exactly like LDC.
		return false, vm.execCodeCopy(in, vm.params.GasCosts.LDC)

	case asm.CROO:
		id, pp := vm.readContractId(in.RB)
		if pp != nil {
			return false, pp
		}
		code, err := vm.storage.GetCode(id)
		if err != nil {
			return false, newPanic(asm.PanicReasonContractNotFound, in)
		}
		root := crypto.Keccak256(code)
		if pp := vm.writeMem(in, vm.regs.Get(in.RA), root[:]); pp != nil {
			return false, pp
		}
		return false, nil

	case asm.CSIZ:
		id, pp := vm.readContractId(in.RB)
		if pp != nil {
			return false, pp
		}
		code, err := vm.storage.GetCode(id)
		if err != nil {
			return false, newPanic(asm.PanicReasonContractNotFound, in)
		}
		if p := vm.chargeGas(vm.params.GasCosts.CSIZ.Cost(types.Word(len(code)))); p != nil {
			return false, p
		}
		vm.regs.Set(in.RA, types.Word(len(code)))
		return false, nil

	case asm.CB:
		// No block producer is tracked; resolves to the zero address.
		if pp := vm.writeMem(in, vm.regs.Get(in.RA), make([]byte, 32)); pp != nil {
			return false, pp
		}
		return false, nil

	case asm.LOG:
		vm.emit(tx.Receipt{
			Kind: tx.ReceiptLog, From: vm.contractID,
			RA: vm.regs.Get(in.RA), RB: vm.regs.Get(in.RB), RC: vm.regs.Get(in.RC),
			GasUsed: vm.gasUsed(),
		})
		return false, nil

	case asm.LOGD:
		data, pp := vm.readMem(in, vm.regs.Get(in.RB), vm.regs.Get(in.RC))
		if pp != nil {
			return false, pp
		}
		if p := vm.chargeGas(vm.params.GasCosts.LOGD.Cost(types.Word(len(data)))); p != nil {
			return false, p
		}
		vm.emit(tx.Receipt{
			Kind: tx.ReceiptLogData, From: vm.contractID, RA: vm.regs.Get(in.RA),
			Data: data, GasUsed: vm.gasUsed(),
		})
		return false, nil

	case asm.TR:
		return false, vm.execTransfer(in, false)

	case asm.TRO:
		return false, vm.execTransfer(in, true)

	case asm.BAL:
		asset, pp := vm.readAssetId(in.RB)
		if pp != nil {
			return false, pp
		}
		contract, pp := vm.readContractId(in.RC)
		if pp != nil {
			return false, pp
		}
		bal, err := vm.storage.GetBalance(contract, asset)
		if err != nil {
			return false, newPanic(asm.PanicReasonAssetIdNotFound, in)
		}
		vm.regs.Set(in.RA, bal)
		return false, nil

	case asm.SMO:
		return false, vm.execSendMessage(in)

	case asm.TIME:
		if p := vm.chargeGas(vm.params.GasCosts.RegisterWrite); p != nil {
			return false, p
		}
		vm.regs.Set(in.RA, vm.timestamp)
		return false, nil

	case asm.BSIZ:
		id, pp := vm.readBlobId(vm.regs.Get(in.RA) + types.Word(in.Imm))
		if pp != nil {
			return false, pp
		}
		data, err := vm.storage.GetBlob(id)
		if err != nil {
			return false, newPanic(asm.PanicReasonContractNotFound, in)
		}
		vm.regs.Set(in.RA, types.Word(len(data)))
		return false, nil

	case asm.BLDD:
		base := vm.regs.Get(in.RA)
		id, pp := vm.readBlobId(base)
		if pp != nil {
			return false, pp
		}
		data, err := vm.storage.GetBlob(id)
		if err != nil {
			return false, newPanic(asm.PanicReasonContractNotFound, in)
		}
		if types.Word(len(data)) > types.Word(in.Imm) {
			data = data[:in.Imm]
		}
		if pp := vm.writeMem(in, base+32, data); pp != nil {
			return false, pp
		}
		return false, nil

	case asm.GTF:
		return false, vm.execGTF(in)

	case asm.ECAL:
		if vm.ecal == nil {
			return false, newPanic(asm.PanicReasonErrorFlag, in)
		}
		return false, vm.ecal(vm, in)
	}
	return false, newPanic(asm.PanicReasonInvalidImmediateValue, in)
}

func (vm *Interpreter) readMem(in asm.Instruction, addr, n types.Word) ([]byte, *Panic) {
	data, reason, ok := vm.mem.Read(addr, n)
	if !ok {
		return nil, newPanic(reason, in)
	}
	return data, nil
}

func (vm *Interpreter) writeMem(in asm.Instruction, addr types.Word, data []byte) *Panic {
	reason, ok := vm.mem.Write(addr, data)
	if !ok {
		return newPanic(reason, in)
	}
	return nil
}

func (vm *Interpreter) readContractId(reg types.RegId) (types.ContractId, *Panic) {
	data, reason, ok := vm.mem.Read(vm.regs.Get(reg), 32)
	if !ok {
		return types.ContractId{}, newPanic(reason, asm.Instruction{Op: asm.CALL, RA: reg})
	}
	var id types.ContractId
	copy(id[:], data)
	return id, nil
}

func (vm *Interpreter) readAssetId(reg types.RegId) (types.AssetId, *Panic) {
	data, reason, ok := vm.mem.Read(vm.regs.Get(reg), 32)
	if !ok {
		return types.AssetId{}, newPanic(reason, asm.Instruction{Op: asm.CALL, RA: reg})
	}
	var id types.AssetId
	copy(id[:], data)
	return id, nil
}

func (vm *Interpreter) readBlobId(addr types.Word) (types.Hash, *Panic) {
	data, reason, ok := vm.mem.Read(addr, 32)
	if !ok {
		return types.Hash{}, newPanic(reason, asm.Instruction{Op: asm.BSIZ})
	}
	return types.BytesToHash(data), nil
}

// assetIdFor derives a contract-owned asset's ID from its contract and
// sub-id, mirroring the reference protocol's asset-id derivation.
func assetIdFor(contract types.ContractId, subID types.Hash) types.AssetId {
	h := crypto.Keccak256(contract[:], subID[:])
	return types.AssetId(h)
}

func (vm *Interpreter) execMint(in asm.Instruction, mint bool) *Panic {
	amount := vm.regs.Get(in.RA)
	subID, pp := vm.readHash(in.RB)
	if pp != nil {
		return pp
	}
	asset := assetIdFor(vm.contractID, subID)
	bal, err := vm.storage.GetBalance(vm.contractID, asset)
	if err != nil {
		return newPanic(asm.PanicReasonAssetIdNotFound, in)
	}
	if mint {
		bal += amount
	} else {
		if amount > bal {
			return newPanic(asm.PanicReasonNotEnoughBalance, in)
		}
		bal -= amount
	}
	if err := vm.storage.SetBalance(vm.contractID, asset, bal); err != nil {
		return newPanic(asm.PanicReasonInternalBalanceOverflow, in)
	}
	kind := tx.ReceiptBurn
	if mint {
		kind = tx.ReceiptMint
	}
	vm.emit(tx.Receipt{Kind: kind, From: vm.contractID, Amount: amount, AssetId: asset, GasUsed: vm.gasUsed()})
	return nil
}

func (vm *Interpreter) readHash(reg types.RegId) (types.Hash, *Panic) {
	data, reason, ok := vm.mem.Read(vm.regs.Get(reg), 32)
	if !ok {
		return types.Hash{}, newPanic(reason, asm.Instruction{Op: asm.TR, RA: reg})
	}
	return types.BytesToHash(data), nil
}

func (vm *Interpreter) execCall(in asm.Instruction) (bool, *Panic) {
	target, pp := vm.readContractId(in.RA)
	if pp != nil {
		return false, pp
	}
	amount := vm.regs.Get(in.RB)
	asset, pp := vm.readAssetId(in.RC)
	if pp != nil {
		return false, pp
	}
	forwardedGasRequest := vm.regs.Get(in.RD)
	code, err := vm.storage.GetCode(target)
	if err != nil {
		return false, newPanic(asm.PanicReasonContractNotFound, in)
	}
	if p := vm.chargeGas(vm.params.GasCosts.Call.Cost(types.Word(len(code)))); p != nil {
		return false, p
	}

	if amount > 0 {
		if vm.contractID == (types.ContractId{}) {
			if amount > vm.availableBalance[asset] {
				return false, newPanic(asm.PanicReasonNotEnoughBalance, in)
			}
			dstBal, _ := vm.storage.GetBalance(target, asset)
			vm.availableBalance[asset] -= amount
			if err := vm.storage.SetBalance(target, asset, dstBal+amount); err != nil {
				return false, newPanic(asm.PanicReasonInternalBalanceOverflow, in)
			}
		} else {
			srcBal, err := vm.storage.GetBalance(vm.contractID, asset)
			if err != nil || amount > srcBal {
				return false, newPanic(asm.PanicReasonNotEnoughBalance, in)
			}
			dstBal, _ := vm.storage.GetBalance(target, asset)
			if err := vm.storage.SetBalance(vm.contractID, asset, srcBal-amount); err != nil {
				return false, newPanic(asm.PanicReasonInternalBalanceOverflow, in)
			}
			if err := vm.storage.SetBalance(target, asset, dstBal+amount); err != nil {
				return false, newPanic(asm.PanicReasonInternalBalanceOverflow, in)
			}
		}
	}

	currentCGas := vm.regs.Get(types.RegCGas)
	forwardedGas := forwardedGasRequest
	if forwardedGas > currentCGas {
		forwardedGas = currentCGas
	}

	vm.frames = append(vm.frames, Frame{
		ContractId:         vm.contractID,
		AssetId:            asset,
		Amount:             amount,
		CodeSize:           types.Word(len(vm.code)),
		SavedRegisters:     vm.regs,
		SavedCode:          vm.code,
		SavedPC:            vm.pc,
		SavedIS:            vm.regs.Get(types.RegIS),
		SavedSSP:           vm.mem.SSP(),
		ReceiptsRootAtCall: len(vm.receipts),
		ForwardedGas:       forwardedGas,
	})
	vm.mem.PushStackFrame()
	vm.emit(tx.Receipt{Kind: tx.ReceiptCall, From: vm.contractID, To: target, Amount: amount, AssetId: asset, GasUsed: vm.gasUsed()})

	vm.code = code
	vm.contractID = target
	vm.pc = 0
	vm.regs.Set(types.RegIS, 0)
	vm.regs.Set(types.RegBal, amount)
	vm.regs.Set(types.RegCGas, forwardedGas)
	return true, nil
}

func (vm *Interpreter) execCodeCopy(in asm.Instruction, cost dependentCoster) *Panic {
	dst := vm.regs.Get(in.RA)
	id, pp := vm.readContractId(in.RB)
	if pp != nil {
		return pp
	}
	n := vm.regs.Get(in.RC)
	code, err := vm.storage.GetCode(id)
	if err != nil {
		return newPanic(asm.PanicReasonContractNotFound, in)
	}
	if p := vm.chargeGas(cost.Cost(n)); p != nil {
		return p
	}
	buf := make([]byte, n)
	copy(buf, code)
	return vm.writeMem(in, dst, buf)
}

func (vm *Interpreter) execTransfer(in asm.Instruction, toOutput bool) *Panic {
	if vm.contractID == (types.ContractId{}) {
		return newPanic(asm.PanicReasonExpectedInternalContext, in)
	}
	amount := vm.regs.Get(in.RB)
	if amount == 0 {
		return newPanic(asm.PanicReasonTransferAmountCannotBeZero, in)
	}
	asset, pp := vm.readAssetId(in.RC)
	if pp != nil {
		return pp
	}
	srcBal, err := vm.storage.GetBalance(vm.contractID, asset)
	if err != nil || amount > srcBal {
		return newPanic(asm.PanicReasonNotEnoughBalance, in)
	}
	if err := vm.storage.SetBalance(vm.contractID, asset, srcBal-amount); err != nil {
		return newPanic(asm.PanicReasonInternalBalanceOverflow, in)
	}

	if toOutput {
		recipient, pp := vm.readHash(in.RA)
		if pp != nil {
			return pp
		}
		vm.emit(tx.Receipt{
			Kind: tx.ReceiptTransferOut, From: vm.contractID,
			Recipient: types.Address(recipient), Amount: amount, AssetId: asset, GasUsed: vm.gasUsed(),
		})
		return nil
	}

	target, pp := vm.readContractId(in.RA)
	if pp != nil {
		return pp
	}
	dstBal, _ := vm.storage.GetBalance(target, asset)
	if err := vm.storage.SetBalance(target, asset, dstBal+amount); err != nil {
		return newPanic(asm.PanicReasonInternalBalanceOverflow, in)
	}
	vm.emit(tx.Receipt{Kind: tx.ReceiptTransfer, From: vm.contractID, To: target, Amount: amount, AssetId: asset, GasUsed: vm.gasUsed()})
	return nil
}

func (vm *Interpreter) execSendMessage(in asm.Instruction) *Panic {
	recipient, pp := vm.readHash(in.RA)
	if pp != nil {
		return pp
	}
	data, pp := vm.readMem(in, vm.regs.Get(in.RB), vm.regs.Get(in.RC))
	if pp != nil {
		return pp
	}
	if p := vm.chargeGas(vm.params.GasCosts.SMO.Cost(types.Word(len(data)))); p != nil {
		return p
	}
	amount := vm.regs.Get(types.RegBal)
	nonce := crypto.Keccak256(vm.contractID[:], recipient[:], data)
	msg := storage.Message{
		Sender:    types.Address(vm.contractID),
		Recipient: types.Address(recipient),
		Nonce:     nonce,
		Amount:    amount,
		Data:      data,
	}
	if err := vm.storage.PutMessage(msg); err != nil {
		return newPanic(asm.PanicReasonErrorFlag, in)
	}
	vm.emit(tx.Receipt{
		Kind: tx.ReceiptMessageOut, Sender: types.Address(vm.contractID), Recipient: types.Address(recipient),
		Amount: amount, Nonce: nonce, Data: data, GasUsed: vm.gasUsed(),
	})
	return nil
}

func (vm *Interpreter) execGTF(in asm.Instruction) *Panic {
	if p := vm.chargeGas(vm.params.GasCosts.RegisterWrite); p != nil {
		return p
	}
	if vm.checked == nil || vm.checked.Tx == nil {
		return newPanic(asm.PanicReasonInvalidMetadataIdentifier, in)
	}
	t := vm.checked.Tx
	switch types.Word(in.Imm) {
	case tx.GTFInputsCount:
		vm.regs.Set(in.RA, types.Word(len(t.Inputs)))
	case tx.GTFOutputsCount:
		vm.regs.Set(in.RA, types.Word(len(t.Outputs)))
	case tx.GTFWitnessesCount:
		vm.regs.Set(in.RA, types.Word(len(t.Witnesses)))
	case tx.GTFScriptLength:
		vm.regs.Set(in.RA, types.Word(len(t.Script)))
	case tx.GTFScriptDataLength:
		vm.regs.Set(in.RA, types.Word(len(t.ScriptData)))
	case tx.GTFScriptGasLimit:
		offset, ok := vm.checked.FieldOffsets[tx.GTFScriptGasLimit]
		if !ok {
			return newPanic(asm.PanicReasonInvalidMetadataIdentifier, in)
		}
		encoded := t.Encode()
		if offset+8 > len(encoded) {
			return newPanic(asm.PanicReasonInvalidMetadataIdentifier, in)
		}
		vm.regs.Set(in.RA, binary.BigEndian.Uint64(encoded[offset:offset+8]))
	default:
		return newPanic(asm.PanicReasonInvalidMetadataIdentifier, in)
	}
	return nil
}
