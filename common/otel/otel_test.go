package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"

	"supporttriage.app/backend/common/otel"
	"supporttriage.app/backend/core/config"
)

var _ = Describe("Setup", func() {
	It("does nothing without an endpoint", func() {
		telemetry, err := otel.Setup(context.Background(), config.OTelConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).To(BeNil())
	})
})

var _ = Describe("NewResource", func() {
	It("carries the service identity and the generation endpoint", func() {
		cfg := config.OTelConfig{ServiceName: "support-triage", ServiceVersion: "1.4.0"}
		ai := config.AIConfig{Provider: config.ProviderOllama, Model: "llama3.2"}

		res, err := otel.NewResource(cfg, otel.AIAttributes(ai)...)
		Expect(err).NotTo(HaveOccurred())

		set := res.Set()
		value := func(key string) string {
			v, ok := set.Value(attribute.Key(key))
			ExpectWithOffset(1, ok).To(BeTrue(), "missing %s", key)
			return v.AsString()
		}
		Expect(value("service.name")).To(Equal("support-triage"))
		Expect(value("service.version")).To(Equal("1.4.0"))
		Expect(value("ai.provider")).To(Equal("ollama"))
		Expect(value("ai.model")).To(Equal("llama3.2"))
	})

	It("labels the replay worker with its stream", func() {
		ledger := config.LedgerConfig{Stream: "ai_runs_unrecorded", Group: "ledger_replay"}

		res, err := otel.NewResource(config.OTelConfig{ServiceName: "support-triage-worker"}, otel.LedgerAttributes(ledger)...)
		Expect(err).NotTo(HaveOccurred())

		v, ok := res.Set().Value(attribute.Key("ledger.stream"))
		Expect(ok).To(BeTrue())
		Expect(v.AsString()).To(Equal("ai_runs_unrecorded"))
	})
})
