// Package patchslot numbers the pak override files the game loads after
// its base chunk. Slots are named "<chain>.patch_NNN.pak"; a disabled slot
// keeps its ".disabled" suffix and still holds its number.
package patchslot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/types"
)

// Slot is one patch file found in the game root
type Slot struct {
	Name     string
	Number   int
	Disabled bool
}

// Scheme knows how slot file names are built for one patch chain
type Scheme struct {
	chain          string
	disabledSuffix string
	pattern        *regexp.Regexp
}

// NewScheme returns the naming scheme for chain (for example
// "re_chunk_000.pak") with the given disabled suffix.
func NewScheme(chain, disabledSuffix string) *Scheme {
	return &Scheme{
		chain:          chain,
		disabledSuffix: disabledSuffix,
		pattern: regexp.MustCompile(
			`^` + regexp.QuoteMeta(chain) + `\.patch_(\d+)\.pak(` + regexp.QuoteMeta(disabledSuffix) + `)?$`),
	}
}

// Name returns the enabled file name of slot n
func (s *Scheme) Name(n int) string {
	return fmt.Sprintf("%s.patch_%03d.pak", s.chain, n)
}

// Parse reports whether name is a slot of this chain
func (s *Scheme) Parse(name string) (Slot, bool) {
	m := s.pattern.FindStringSubmatch(name)
	if m == nil {
		return Slot{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Slot{}, false
	}
	return Slot{Name: name, Number: n, Disabled: m[2] != ""}, true
}

// IsSlot reports whether name is a slot, enabled or disabled
func (s *Scheme) IsSlot(name string) bool {
	_, ok := s.Parse(name)
	return ok
}

// Disabled returns the disabled form of an enabled slot name
func (s *Scheme) Disabled(name string) string {
	if strings.HasSuffix(name, s.disabledSuffix) {
		return name
	}
	return name + s.disabledSuffix
}

// Enabled strips the disabled suffix from a slot name
func (s *Scheme) Enabled(name string) string {
	return strings.TrimSuffix(name, s.disabledSuffix)
}

// Scan lists the slots present in gameRoot
func (s *Scheme) Scan(fsys types.FS, gameRoot string) ([]Slot, error) {
	entries, err := fsys.ReadDir(gameRoot)
	if err != nil {
		return nil, fmt.Errorf("scan patch slots in %s: %w", gameRoot, err)
	}
	var slots []Slot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slot, ok := s.Parse(e.Name()); ok {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// Next returns max+1 over the given slots, or 1 when there are none
func Next(slots []Slot) int {
	highest := 0
	for _, slot := range slots {
		if slot.Number > highest {
			highest = slot.Number
		}
	}
	return highest + 1
}

// Allocator hands out fresh slot numbers for one enable operation. It
// starts from the slots on disk and never repeats a number, so a mod
// shipping several paks gets distinct slots.
type Allocator struct {
	scheme *Scheme
	next   int
}

// NewAllocator scans gameRoot and returns an allocator past its highest slot
func (s *Scheme) NewAllocator(fsys types.FS, gameRoot string) (*Allocator, error) {
	slots, err := s.Scan(fsys, gameRoot)
	if err != nil {
		return nil, err
	}
	return &Allocator{scheme: s, next: Next(slots)}, nil
}

// Take returns the file name of the next free slot
func (a *Allocator) Take() string {
	name := a.scheme.Name(a.next)
	a.next++
	return name
}
