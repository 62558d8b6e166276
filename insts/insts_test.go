package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should name operations", func() {
		Expect(insts.OpDRW.String()).To(Equal("DRW"))
		Expect(insts.OpLOAD.String()).To(Equal("LOAD"))
		Expect(insts.Op(200).String()).To(Equal("Op(200)"))
	})
})
