package logger_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/airpipe/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	logger := logger.NewLogger("test-service", "debug", true)

	It("Should have `test-service` as service name", func() {
		logOutput := bytes.NewBufferString("")
		logger.SetOutput(logOutput)

		logger.Info("Testing")

		Expect(logOutput.String()).To(ContainSubstring("service=test-service"))
	})

	It("Should have info as log level", func() {
		logOutput := bytes.NewBufferString("")
		logger.SetOutput(logOutput)

		logger.Info("Testing")

		Expect(logOutput.String()).To(ContainSubstring("level=info"))
	})

	It("Should have warn as log level", func() {
		logOutput := bytes.NewBufferString("")
		logger.SetOutput(logOutput)

		logger.Warn("Testing")

		Expect(logOutput.String()).To(ContainSubstring("level=warning"))
	})

	It("Should have error as log level", func() {
		logOutput := bytes.NewBufferString("")
		logger.SetOutput(logOutput)

		logger.Error("Testing")

		Expect(logOutput.String()).To(ContainSubstring("level=error"))
		Expect(logOutput.String()).To(ContainSubstring("stackTrace"))
	})

	It("Should have `Testing` as msg", func() {
		logOutput := bytes.NewBufferString("")
		logger.SetOutput(logOutput)

		logger.Info("Testing")

		Expect(logOutput.String()).To(ContainSubstring("msg=Testing"))
	})
})
