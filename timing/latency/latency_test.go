package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	decode := func(opcode uint16) *insts.Instruction {
		inst, err := decoder.Decode(opcode)
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should run at 700 Hz with 60 Hz timers", func() {
			config := table.Config()
			Expect(config.CPUFrequency).To(Equal(uint64(700)))
			Expect(config.TimerFrequency).To(Equal(uint64(60)))
		})

		It("should charge one cycle for every instruction", func() {
			for _, opcode := range []uint16{0x00E0, 0x1200, 0x3000, 0x8014, 0xA200, 0xD015, 0xE09E, 0xF007} {
				Expect(table.GetLatency(decode(opcode))).To(Equal(uint64(1)))
			}
		})
	})

	Describe("Custom Configuration", func() {
		BeforeEach(func() {
			table = latency.NewTableWithConfig(&latency.TimingConfig{
				CPUFrequency:   1000,
				TimerFrequency: 60,
				ALULatency:     2,
				BranchLatency:  3,
				MemoryLatency:  4,
				DrawLatency:    5,
				InputLatency:   6,
				TimerLatency:   7,
			})
		})

		DescribeTable("should charge by instruction class",
			func(opcode uint16, want uint64) {
				Expect(table.GetLatency(decode(opcode))).To(Equal(want))
			},
			Entry("LD Vx, byte", uint16(0x6AFF), uint64(2)),
			Entry("ADD Vx, Vy", uint16(0x8014), uint64(2)),
			Entry("RND", uint16(0xC0FF), uint64(2)),
			Entry("JP", uint16(0x1230), uint64(3)),
			Entry("CALL", uint16(0x2300), uint64(3)),
			Entry("RET", uint16(0x00EE), uint64(3)),
			Entry("SE", uint16(0x3012), uint64(3)),
			Entry("LD I", uint16(0xA123), uint64(4)),
			Entry("STORE", uint16(0xF555), uint64(4)),
			Entry("DRW", uint16(0xD125), uint64(5)),
			Entry("CLS", uint16(0x00E0), uint64(5)),
			Entry("SKP", uint16(0xE19E), uint64(6)),
			Entry("LD Vx, K", uint16(0xF10A), uint64(6)),
			Entry("LD DT, Vx", uint16(0xF115), uint64(7)),
		)
	})

	Describe("Instruction Type Detection", func() {
		It("should detect memory operations", func() {
			Expect(table.IsMemoryOp(decode(0xF355))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0xF365))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0xF333))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0xD015))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0xA200))).To(BeFalse())
		})

		It("should detect branch operations", func() {
			Expect(table.IsBranchOp(decode(0x1200))).To(BeTrue())
			Expect(table.IsBranchOp(decode(0x4012))).To(BeTrue())
			Expect(table.IsBranchOp(decode(0x8014))).To(BeFalse())
		})
	})

	Describe("Nil Instruction Handling", func() {
		It("should return 1 for nil instruction", func() {
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})

		It("should return false for nil instruction checks", func() {
			Expect(table.IsMemoryOp(nil)).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		DescribeTable("should reject zero values",
			func(mutate func(*latency.TimingConfig), field string) {
				config := latency.DefaultTimingConfig()
				mutate(config)
				Expect(config.Validate()).To(MatchError(ContainSubstring(field)))
			},
			Entry("cpu_frequency", func(c *latency.TimingConfig) { c.CPUFrequency = 0 }, "cpu_frequency"),
			Entry("timer_frequency", func(c *latency.TimingConfig) { c.TimerFrequency = 0 }, "timer_frequency"),
			Entry("alu_latency", func(c *latency.TimingConfig) { c.ALULatency = 0 }, "alu_latency"),
			Entry("branch_latency", func(c *latency.TimingConfig) { c.BranchLatency = 0 }, "branch_latency"),
			Entry("memory_latency", func(c *latency.TimingConfig) { c.MemoryLatency = 0 }, "memory_latency"),
			Entry("draw_latency", func(c *latency.TimingConfig) { c.DrawLatency = 0 }, "draw_latency"),
			Entry("input_latency", func(c *latency.TimingConfig) { c.InputLatency = 0 }, "input_latency"),
			Entry("timer_latency", func(c *latency.TimingConfig) { c.TimerLatency = 0 }, "timer_latency"),
		)
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.ALULatency = 100

			Expect(original.ALULatency).To(Equal(uint64(1)))
			Expect(clone.ALULatency).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.CPUFrequency = 1000
			original.DrawLatency = 10

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"cpu_frequency": 500}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CPUFrequency).To(Equal(uint64(500)))
			Expect(loaded.TimerFrequency).To(Equal(uint64(60)))
			Expect(loaded.ALULatency).To(Equal(uint64(1)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
