package ssi

import (
	"reflect"
	"testing"
)

func TestCache_add(t *testing.T) {
	k1 := newKey(make([]byte, SeedLen))
	seed := make([]byte, SeedLen)
	seed[0] = 1
	k2 := newKey(seed)

	tests := []struct {
		name string
		keys []*Key
		want int
	}{
		{"empty", nil, 0},
		{"one", []*Key{k1}, 1},
		{"two", []*Key{k1, k2}, 2},
		{"same twice", []*Key{k1, k1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Cache{}
			for _, k := range tt.keys {
				c.Add(k)
			}
			if got := c.Len(); got != tt.want {
				t.Errorf("Cache.Len() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_get(t *testing.T) {
	k := newKey(make([]byte, SeedLen))
	c := Cache{}
	c.Add(k)

	tests := []struct {
		name   string
		verKey string
		want   *Key
	}{
		{"found", k.VerKey, k},
		{"not found", "none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Get(tt.verKey); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cache.Get() = %v, want %v", got, tt.want)
			}
		})
	}
}
