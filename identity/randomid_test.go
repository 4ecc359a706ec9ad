package identity

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateGUID(t *testing.T) {
	idReader = rand.New(rand.NewSource(0))

	for i := 0; i < 1000; i++ {
		guid := NewID()

		var i big.Int
		_, ok := i.SetString(guid, randomIDBase)
		if !ok {
			t.Fatal("id should be base 36", i, guid)
		}

		if len(guid) != maxRandomIDLength {
			t.Fatalf("len(%s) != %v", guid, maxRandomIDLength)
		}
	}
}

func TestGenerateUUID(t *testing.T) {
	idReader = rand.New(rand.NewSource(0))

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewUUID()
		if !IsUUID(id) {
			t.Fatalf("%q is not a uuid", id)
		}
		parsed := uuid.MustParse(id)
		if parsed.Version() != 4 {
			t.Fatalf("expected version 4 uuid, got %v", parsed.Version())
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate uuid %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsUUID(t *testing.T) {
	for _, tc := range []struct {
		in string
		ok bool
	}{
		{"", false},
		{"not-a-uuid", false},
		{"f5lxx1zz5pnorynqglhzmsp33", false},
		{"6f0a9a51-7e4b-4e0e-9b3b-6c1f1f9d5e11", true},
		{"{6f0a9a51-7e4b-4e0e-9b3b-6c1f1f9d5e11}", false},
	} {
		if got := IsUUID(tc.in); got != tc.ok {
			t.Errorf("IsUUID(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}
