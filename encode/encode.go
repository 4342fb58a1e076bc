// Package encode implements the bit-exact 14-bit word encodings defined in
// spec.md §4.4: the opcode word and the operand words that follow it,
// including the ARE relocation field and the double-register optimization.
package encode

import (
	"fmt"

	"asm14/parser"
)

// ARE is the two-bit relocation tag carried in the low bits of every word
// after the opcode word.
type ARE uint16

const (
	AREAbsolute   ARE = 0b00
	AREExternal   ARE = 0b01
	ARERelocatable ARE = 0b10
)

// WordMask keeps every emitted value within the machine's 14-bit word.
const WordMask = 0x3FFF

// MaxImmediate and MinImmediate bound the signed 12-bit field carried by an
// Immediate or Fixed-index-second-word encoding (spec.md §4.4, P6).
const (
	MaxImmediate = 2047
	MinImmediate = -2048
)

// OpcodeWord builds the instruction's first word: zeros in bits 13..10,
// opcode in 9..6, source addressing mode in 5..4, target addressing mode in
// 3..2, and ARE=00 in 1..0. An absent operand's mode field is zero.
func OpcodeWord(op parser.Opcode, hasSrc bool, srcMode parser.AddrMode, hasTgt bool, tgtMode parser.AddrMode) uint16 {
	var src, tgt uint16
	if hasSrc {
		src = uint16(srcMode)
	}
	if hasTgt {
		tgt = uint16(tgtMode)
	}
	return (uint16(op) << 6) | (src << 4) | (tgt << 2)
}

// ImmediateWord encodes a signed value into the 12-bit two's-complement
// field at bits 13..2, ARE=00. It errors outside [MinImmediate, MaxImmediate]
// (spec.md P6).
func ImmediateWord(value int) (uint16, error) {
	if value < MinImmediate || value > MaxImmediate {
		return 0, fmt.Errorf("value %d exceeds the machine's 12-bit signed range [%d, %d]", value, MinImmediate, MaxImmediate)
	}
	field := uint16(value) & 0xFFF // two's complement truncation to 12 bits
	return (field << 2) | uint16(AREAbsolute), nil
}

// DirectWord encodes a resolved 12-bit address with the given ARE tag.
// External symbols pass addr 0 (their address is unknown to this unit).
func DirectWord(addr int, are ARE) uint16 {
	return (uint16(addr&0xFFF) << 2) | uint16(are)
}

// RegisterWord encodes the combined or single-sided register word: source
// register (if present) in bits 7..5, target register (if present) in bits
// 4..2, ARE=00. Used both for a lone register operand and for the
// double-register optimization's single shared word (spec.md §4.3 P5, §4.4).
func RegisterWord(hasSrc bool, srcReg int, hasTgt bool, tgtReg int) uint16 {
	var src, tgt uint16
	if hasSrc {
		src = uint16(srcReg)
	}
	if hasTgt {
		tgt = uint16(tgtReg)
	}
	return (src << 5) | (tgt << 2)
}

// OperandWordCount returns how many additional words (beyond the opcode
// word) a single operand of the given mode contributes, per spec.md §4.3.
func OperandWordCount(mode parser.AddrMode) int {
	switch mode {
	case parser.AddrImmediate, parser.AddrDirect, parser.AddrDirectRegister:
		return 1
	case parser.AddrFixedIndex:
		return 2
	default:
		return 0
	}
}

// InstructionWordCount computes an instruction's total word count (opcode
// word included), applying the double-register optimization: when both
// operands are present and AddrDirectRegister, they share one word instead
// of two (spec.md §4.3, P5).
func InstructionWordCount(hasSrc bool, srcMode parser.AddrMode, hasTgt bool, tgtMode parser.AddrMode) int {
	if hasSrc && hasTgt && srcMode == parser.AddrDirectRegister && tgtMode == parser.AddrDirectRegister {
		return 2
	}
	total := 1
	if hasSrc {
		total += OperandWordCount(srcMode)
	}
	if hasTgt {
		total += OperandWordCount(tgtMode)
	}
	return total
}
