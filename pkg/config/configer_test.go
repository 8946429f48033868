package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/config"
)

var _ = Describe("Configer", func() {
	var tmp string

	BeforeEach(func() {
		tmp = GinkgoT().TempDir()
	})

	It("loads defaults when no config file exists", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("doc2vec"))
		Expect(cfg.Extract.MinWords).To(Equal(10))
	})

	It("round-trips a value through set and get", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("answer.provider", "ollama")).To(Succeed())

		value, err := cfger.GetConfigValue("answer.provider")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("ollama"))

		_, err = os.Stat(filepath.Join(tmp, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("parses integer keys", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("embedding.epochs", "40")).To(Succeed())

		value, err := cfger.GetConfigValue("embedding.epochs")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("40"))
	})

	It("rejects non-integer values for integer keys", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("embedding.epochs", "many")).To(HaveOccurred())
	})

	It("rejects unknown keys", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("nope", "x")).To(HaveOccurred())

		_, err = cfger.GetConfigValue("nope")
		Expect(err).To(HaveOccurred())
	})

	It("preserves other values across sets", func() {
		cfger, err := config.NewConfiger(tmp)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("answer.provider", "ollama")).To(Succeed())
		Expect(cfger.SetConfigValue("api.listen", ":9000")).To(Succeed())

		value, err := cfger.GetConfigValue("answer.provider")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("ollama"))
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("covers every key IsValidConfigKey accepts", func() {
		for _, key := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(key)).To(BeTrue(), key)
		}
	})

	It("includes the embedding training keys", func() {
		Expect(config.ValidConfigKeys()).To(ContainElements(
			"embedding.vector_size", "embedding.min_count", "embedding.epochs"))
	})
})
