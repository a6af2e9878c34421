package catalog_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/logger"
)

var _ = Describe("FileStore", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	cachePath := func() string {
		return filepath.Join(dir, "skills-cache.json")
	}

	It("round-trips a snapshot", func() {
		store := catalog.NewFileStore(dir, logger.Nop())

		snap := &catalog.Snapshot{
			Timestamp: 1764589200000,
			Skills:    []catalog.Skill{{Name: "hubspot", Description: "CRM access"}},
		}
		Expect(store.Save(snap)).To(Succeed())

		loaded := store.Load()
		Expect(loaded).NotTo(BeNil())
		Expect(loaded.Timestamp).To(Equal(snap.Timestamp))
		Expect(loaded.Skills).To(Equal(snap.Skills))
	})

	It("returns nil when no snapshot was persisted", func() {
		store := catalog.NewFileStore(dir, logger.Nop())
		Expect(store.Load()).To(BeNil())
	})

	It("removes a corrupt slot and reports a miss", func() {
		Expect(os.WriteFile(cachePath(), []byte("{not json"), 0o644)).To(Succeed())

		store := catalog.NewFileStore(dir, logger.Nop())
		Expect(store.Load()).To(BeNil())

		_, err := os.Stat(cachePath())
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("deletes the slot", func() {
		store := catalog.NewFileStore(dir, logger.Nop())
		Expect(store.Save(&catalog.Snapshot{Timestamp: 1})).To(Succeed())

		Expect(store.Delete()).To(Succeed())
		Expect(store.Load()).To(BeNil())
	})

	It("treats deleting an empty slot as success", func() {
		store := catalog.NewFileStore(dir, logger.Nop())
		Expect(store.Delete()).To(Succeed())
	})
})
