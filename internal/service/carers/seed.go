package carers

import "github.com/janisto/carer-directory/internal/platform/docstore"

// demoProfiles are loaded into an in-memory store for local runs without Firestore.
var demoProfiles = map[string]map[string]any{
	"amelia-stone": {
		"username": "Amelia Stone",
		"roles":    []any{carerRole},
		"photoURL": "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=400&q=80",
		"bio":      "Amelia has been supporting families in our community for over a decade, focusing on personalised care plans that celebrate independence.",
		"reviews":  []any{5, 4, 5, 5},
		"address":  "12 Harbour Street, Bristol",
		"location": map[string]any{"lat": 51.4504, "lng": -2.5975},
	},
	"liam-patel": {
		"username": "Liam Patel",
		"roles":    []any{carerRole},
		"bio":      "Liam specialises in dementia care and is known for creating calming routines that help people feel safe and understood.",
		"reviews":  []any{4, 4, 5},
		"geo":      []any{-1.8904, 52.4862},
	},
	"nina-owens": {
		"username": "Nina Owens",
		"roles":    []any{carerRole},
		"photoURL": "https://images.unsplash.com/photo-1544723795-3fb6469f5b39?auto=format&fit=crop&w=400&q=80",
		"reviews":  []any{},
	},
}

// SeedDemo loads three sample carer profiles into store.
func SeedDemo(store *docstore.MemoryStore) {
	for id, profile := range demoProfiles {
		store.Seed(UsersCollection, id, profile)
	}
}
