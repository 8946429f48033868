package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("NewWithWriters", func() {
		It("writes info messages to the given writer", func() {
			var buf bytes.Buffer
			l := logger.NewWithWriters(false, &buf)
			l.Info("hello")

			Expect(buf.String()).To(ContainSubstring("hello"))
		})

		It("filters debug messages when debug is disabled", func() {
			var buf bytes.Buffer
			l := logger.NewWithWriters(false, &buf)
			l.Debug("hidden")

			Expect(buf.String()).To(BeEmpty())
		})

		It("emits debug messages when debug is enabled", func() {
			var buf bytes.Buffer
			l := logger.NewWithWriters(true, &buf)
			l.Debug("visible")

			Expect(buf.String()).To(ContainSubstring("visible"))
		})

		It("fans out to multiple writers", func() {
			var a, b bytes.Buffer
			l := logger.NewWithWriters(false, &a, &b)
			l.Info("both")

			Expect(a.String()).To(ContainSubstring("both"))
			Expect(b.String()).To(ContainSubstring("both"))
		})
	})

	Describe("Nop", func() {
		It("never panics and writes nothing", func() {
			l := logger.Nop()
			l.Info("discarded")
			l.Error("discarded too")
		})
	})
})
