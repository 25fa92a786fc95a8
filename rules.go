// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrPatternNotFound is returned when a rule's search bytes are missing from
// the executable, which means the version table and the rules disagree.
var ErrPatternNotFound = errors.New("pattern not found")

// Rule replaces every occurrence of Search with Replace. Both have the same
// length so no other byte of the file moves.
type Rule struct {
	Name    string
	Search  []byte
	Replace []byte
}

// Hit is the number of replacements a rule made.
type Hit struct {
	Rule  string
	Count int
}

// Instruction bytes around the constants, per version.
type layout struct {
	menuCtx string // mov [esp+n], imm32 between the menu width and height
	gameCtx string // call + mov [eax+30h], imm32 between the in-game width and height
}

func layoutFor(v Version) (layout, error) {
	switch v {
	case V1001:
		return layout{menuCtx: "C7442438", gameCtx: "E8DCF80100C74030"}, nil
	case V1001Patch3:
		return layout{menuCtx: "C7442434", gameCtx: "E80AE50100C74030"}, nil
	case VersionUnknown:
	}
	return layout{}, fmt.Errorf("no patch rules for version %v", v)
}

const (
	menuWidth  = "20030000" // 800
	menuHeight = "58020000" // 600
	gameWidth  = "00050000" // 1280
	gameHeight = "C0030000" // 960
	hudOffset  = "68010000" // 360, 960 - BaseHeight
)

// Rules builds the substitutions for v that put game in place of the
// in-game resolution and menu in place of the menu resolution.
func Rules(v Version, game, menu Resolution) ([]Rule, error) {
	hud, err := HUDOffset(game.Height)
	if err != nil {
		return nil, err
	}
	return rules(v, game, menu, hud)
}

func rules(v Version, game, menu Resolution, hud uint32) ([]Rule, error) {
	l, err := layoutFor(v)
	if err != nil {
		return nil, err
	}
	mw, mh := menu.LE()
	gw, gh := game.LE()
	hx := le32(hud)

	specs := []struct {
		name    string
		search  string
		replace []string
	}{
		{"menu resolution", menuWidth + l.menuCtx + menuHeight, []string{hex.EncodeToString(mw), l.menuCtx, hex.EncodeToString(mh)}},
		{"in-game resolution", gameWidth + l.gameCtx + gameHeight, []string{hex.EncodeToString(gw), l.gameCtx, hex.EncodeToString(gh)}},
		{"HUD offset", "BD" + hudOffset + "C7", []string{"BD", hex.EncodeToString(hx), "C7"}},
		{"HUD offset width check", gameWidth + "7509BD" + hudOffset, []string{hex.EncodeToString(gw), "7509BD", hex.EncodeToString(hx)}},
	}

	out := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := newRule(s.name, s.search, strings.Join(s.replace, ""))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func newRule(name, search, replace string) (Rule, error) {
	sb, err := hex.DecodeString(search)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: search: %w", name, err)
	}
	rb, err := hex.DecodeString(replace)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: replace: %w", name, err)
	}
	if len(sb) != len(rb) {
		return Rule{}, fmt.Errorf("rule %s: search is %d bytes, replace is %d", name, len(sb), len(rb))
	}
	return Rule{Name: name, Search: sb, Replace: rb}, nil
}

// Apply runs rules over a copy of buf in order and returns the result.
// Every rule's search bytes must be present in buf itself; the input is
// never modified.
func Apply(buf []byte, rules []Rule) ([]byte, []Hit, error) {
	var missing []string
	for _, r := range rules {
		if len(r.Search) == 0 || len(r.Search) != len(r.Replace) {
			return nil, nil, fmt.Errorf("rule %s: search and replace must be non-empty and the same length", r.Name)
		}
		if !bytes.Contains(buf, r.Search) {
			missing = append(missing, r.Name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrPatternNotFound, strings.Join(missing, ", "))
	}

	out := bytes.Clone(buf)
	hits := make([]Hit, 0, len(rules))
	for _, r := range rules {
		n := bytes.Count(out, r.Search)
		if n > 0 {
			out = bytes.ReplaceAll(out, r.Search, r.Replace)
		}
		hits = append(hits, Hit{Rule: r.Name, Count: n})
	}
	return out, hits, nil
}
