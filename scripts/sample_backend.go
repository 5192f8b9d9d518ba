// Command sample_backend serves the research API from memory, seeded with
// deterministic sample reports, for trying the CLI without the real service.
//
//	go run ./scripts -addr 127.0.0.1:5000 -n 40
package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mithrel/dossier/internal/client/clienttest"
	"github.com/mithrel/dossier/pkg/api"
)

var topics = []string{
	"Quantum Computing", "Solid State Batteries", "CRISPR Therapies", "Fusion Energy",
	"Large Language Models", "Coral Reef Restoration", "Urban Heat Islands", "Rust in the Kernel",
	"Lab Grown Meat", "Exoplanet Atmospheres", "Microplastics", "Post Quantum Cryptography",
}

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "listen address")
	n := flag.Int("n", 40, "number of sample reports")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))
	b := clienttest.NewBackend()
	for i := 0; i < *n; i++ {
		topic := topics[i%len(topics)]
		if i >= len(topics) {
			topic = fmt.Sprintf("%s %d", topic, i/len(topics)+1)
		}
		r := clienttest.SampleReport(topic, 1+mr.Intn(6))
		r.WordCount = 400 + mr.Intn(1200)
		r.IsFavorite = mr.Float64() < 0.2
		r = b.AddReport(r)

		words := strings.Fields(topic)
		b.SetKeywords(r.ID, api.KeywordSet{
			Entities:  []string{"Publisher 1"},
			Technical: words[len(words)-1:],
			Keywords:  []string{strings.ToLower(words[0])},
		})
		for v := 0; v < mr.Intn(3); v++ {
			b.AddVersion(r.ID, api.Version{
				Title:      r.Title,
				Summary:    r.Summary,
				Content:    r.Content,
				WordCount:  r.WordCount - 50*(v+1),
				ChangeNote: fmt.Sprintf("draft %d", v+1),
			})
		}
	}

	log.WithFields(logrus.Fields{"addr": *addr, "reports": *n}).Info("sample backend listening")
	if err := http.ListenAndServe(*addr, b.Handler()); err != nil {
		log.WithError(err).Fatal("serve")
	}
}
