package catalog_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contextware/better-agents/pkg/catalog"
)

type memStore struct {
	snap    *catalog.Snapshot
	saves   int
	deletes int
}

func (m *memStore) Load() *catalog.Snapshot { return m.snap }

func (m *memStore) Save(snap *catalog.Snapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

func (m *memStore) Delete() error {
	m.snap = nil
	m.deletes++
	return nil
}

type fakeSource struct {
	entries []catalog.Entry
	listErr error
	docs    map[string]string
	docErrs map[string]error

	mu        sync.Mutex
	listCalls int
	docCalls  []string
}

func (f *fakeSource) List(ctx context.Context) ([]catalog.Entry, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeSource) FetchDoc(ctx context.Context, entry catalog.Entry) (string, error) {
	f.mu.Lock()
	f.docCalls = append(f.docCalls, entry.Name)
	f.mu.Unlock()

	if err, ok := f.docErrs[entry.Name]; ok {
		return "", err
	}
	return f.docs[entry.Name], nil
}

func dirEntry(name string) catalog.Entry {
	return catalog.Entry{Name: name, Path: "skills/" + name, Type: "dir"}
}

func docWithPurpose(description string) string {
	return "# Skill\n\n## Purpose\n\n" + description + "\n"
}

var _ = Describe("Service", func() {
	var (
		now    time.Time
		store  *memStore
		source *fakeSource
		ctx    context.Context
	)

	newService := func() *catalog.Service {
		return catalog.NewService(source, store, catalog.WithClock(func() time.Time { return now }))
	}

	snapshotAged := func(age time.Duration, skills ...catalog.Skill) *catalog.Snapshot {
		return &catalog.Snapshot{
			Timestamp: now.Add(-age).UnixMilli(),
			Skills:    skills,
		}
	}

	BeforeEach(func() {
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store = &memStore{}
		source = &fakeSource{docs: map[string]string{}, docErrs: map[string]error{}}
		ctx = context.Background()
	})

	It("serves a fresh snapshot without any remote call", func() {
		store.snap = snapshotAged(time.Hour, catalog.Skill{Name: "hubspot", Description: "CRM"})
		source.listErr = errors.New("network down")

		skills := newService().Skills(ctx, false)

		Expect(skills).To(HaveLen(1))
		Expect(skills[0].Name).To(Equal("hubspot"))
		Expect(source.listCalls).To(BeZero())
	})

	It("refetches once the snapshot has reached the TTL", func() {
		store.snap = snapshotAged(catalog.DefaultTTL, catalog.Skill{Name: "old"})
		source.entries = []catalog.Entry{dirEntry("fresh")}
		source.docs["fresh"] = docWithPurpose("Fresh skill.")

		skills := newService().Skills(ctx, false)

		Expect(source.listCalls).To(Equal(1))
		Expect(skills).To(HaveLen(1))
		Expect(skills[0].Name).To(Equal("fresh"))
	})

	It("persists the fetched snapshot with the current timestamp", func() {
		source.entries = []catalog.Entry{dirEntry("hubspot")}
		source.docs["hubspot"] = docWithPurpose("Connect HubSpot CRM data.")

		newService().Skills(ctx, false)

		Expect(store.saves).To(Equal(1))
		Expect(store.snap.Timestamp).To(Equal(now.UnixMilli()))
		Expect(store.snap.Skills).To(HaveLen(1))
	})

	It("deletes the slot before a forced refresh so failure cannot resurrect it", func() {
		store.snap = snapshotAged(time.Minute, catalog.Skill{Name: "still-fresh"})
		source.listErr = errors.New("rate limited")

		skills := newService().Skills(ctx, true)

		Expect(store.deletes).To(Equal(1))
		Expect(skills).To(BeEmpty())
		Expect(source.listCalls).To(Equal(1))
	})

	It("drops entries whose descriptor fetch fails and keeps the rest sorted", func() {
		source.entries = []catalog.Entry{dirEntry("slack"), dirEntry("hubspot"), dirEntry("asana")}
		source.docs["hubspot"] = docWithPurpose("Connect HubSpot CRM data.")
		source.docs["asana"] = docWithPurpose("Manage Asana tasks.")
		source.docErrs["slack"] = errors.New("404")

		skills := newService().Skills(ctx, false)

		Expect(skills).To(HaveLen(2))
		Expect(skills[0].Name).To(Equal("asana"))
		Expect(skills[1].Name).To(Equal("hubspot"))
	})

	It("falls back to a stale snapshot when the listing call fails", func() {
		store.snap = snapshotAged(48*time.Hour, catalog.Skill{Name: "stale-but-usable"})
		source.listErr = errors.New("network down")

		skills := newService().Skills(ctx, false)

		Expect(skills).To(HaveLen(1))
		Expect(skills[0].Name).To(Equal("stale-but-usable"))
	})

	It("returns an empty list when there is no cache and the fetch fails", func() {
		source.listErr = errors.New("network down")

		skills := newService().Skills(ctx, false)

		Expect(skills).NotTo(BeNil())
		Expect(skills).To(BeEmpty())
	})

	It("ignores files and housekeeping directories in the listing", func() {
		source.entries = []catalog.Entry{
			dirEntry("hubspot"),
			dirEntry("slack"),
			{Name: "LICENSE", Path: "skills/LICENSE", Type: "file"},
			{Name: ".github", Path: "skills/.github", Type: "dir"},
		}
		source.docs["hubspot"] = docWithPurpose("Connect HubSpot CRM data.")
		source.docErrs["slack"] = errors.New("404")

		skills := newService().Skills(ctx, false)

		Expect(skills).To(HaveLen(1))
		Expect(skills[0].Name).To(Equal("hubspot"))
		Expect(source.docCalls).NotTo(ContainElement("LICENSE"))
		Expect(source.docCalls).NotTo(ContainElement(".github"))

		Expect(store.snap).NotTo(BeNil())
		Expect(store.snap.Skills).To(HaveLen(1))
	})

	It("treats an empty listing as a valid catalog", func() {
		source.entries = nil

		skills := newService().Skills(ctx, false)

		Expect(skills).To(BeEmpty())
		Expect(store.saves).To(Equal(1))
	})

	Describe("Find", func() {
		It("returns the named skill", func() {
			store.snap = snapshotAged(time.Hour,
				catalog.Skill{Name: "hubspot", Description: "CRM"},
				catalog.Skill{Name: "slack", Description: "Chat"},
			)

			sk, ok := newService().Find(ctx, "slack")
			Expect(ok).To(BeTrue())
			Expect(sk.Description).To(Equal("Chat"))

			_, ok = newService().Find(ctx, "missing")
			Expect(ok).To(BeFalse())
		})
	})
})
