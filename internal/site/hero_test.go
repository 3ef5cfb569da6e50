package site_test

import (
	"math/rand/v2"
	"testing"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/site"
)

func TestHeroPicker(t *testing.T) {
	heroes := []model.HeroImage{
		{Src: "peaches.jpg", Alt: "Peaches"},
		{Src: "cow.jpg", Alt: "Cow"},
		{Src: "dog.jpg", Alt: "Dog"},
	}

	a := site.NewHeroPicker(heroes, rand.New(rand.NewPCG(1, 2)))
	b := site.NewHeroPicker(heroes, rand.New(rand.NewPCG(1, 2)))

	counts := map[string]int{}
	for i := 0; i < 300; i++ {
		ha, ok := a.Pick()
		if !ok {
			t.Fatal("expected a hero")
		}
		hb, _ := b.Pick()
		if ha != hb {
			t.Fatalf("same seed should pick the same hero, got %v and %v", ha, hb)
		}
		counts[ha.Src]++
	}

	for _, h := range heroes {
		if counts[h.Src] == 0 {
			t.Errorf("hero %q never picked", h.Src)
		}
	}
}

func TestHeroPicker_Empty(t *testing.T) {
	if _, ok := site.NewHeroPicker(nil, nil).Pick(); ok {
		t.Error("expected no hero from an empty pool")
	}
}

func TestHeroPicker_GlobalSource(t *testing.T) {
	heroes := []model.HeroImage{{Src: "only.jpg"}}
	h, ok := site.NewHeroPicker(heroes, nil).Pick()
	if !ok || h.Src != "only.jpg" {
		t.Errorf("unexpected pick %v %v", h, ok)
	}
}
