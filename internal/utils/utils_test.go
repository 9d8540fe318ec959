package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/dirtree/internal/utils"
)

func TestNormalizePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "trims_and_drops_blank", input: []string{" *.log ", "", "   "}, expected: []string{"*.log"}},
		{name: "keeps_first_duplicate", input: []string{"b/", "a", "b/", " a"}, expected: []string{"b/", "a"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			normalized := utils.NormalizePatterns(testCase.input)
			if !reflect.DeepEqual(normalized, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}

func TestIsHiddenName(t *testing.T) {
	for name, expected := range map[string]bool{
		".git":     true,
		".":        true,
		"main.go":  false,
		"dir.name": false,
	} {
		if hidden := utils.IsHiddenName(name); hidden != expected {
			t.Fatalf("IsHiddenName(%q) = %t, expected %t", name, hidden, expected)
		}
	}
}

func TestPatternMatching(t *testing.T) {
	patterns := []string{"*.log", "vendor/", "[", "tmp*"}
	testCases := []struct {
		entryName      string
		matchesName    bool
		matchesDirName bool
	}{
		{entryName: "debug.log", matchesName: true, matchesDirName: false},
		{entryName: "vendor", matchesName: false, matchesDirName: true},
		{entryName: "tmpfiles", matchesName: true, matchesDirName: false},
		{entryName: "main.go", matchesName: false, matchesDirName: false},
	}
	for _, testCase := range testCases {
		if matched := utils.MatchesNamePattern(testCase.entryName, patterns); matched != testCase.matchesName {
			t.Fatalf("MatchesNamePattern(%q) = %t", testCase.entryName, matched)
		}
		if matched := utils.MatchesDirectoryPattern(testCase.entryName, patterns); matched != testCase.matchesDirName {
			t.Fatalf("MatchesDirectoryPattern(%q) = %t", testCase.entryName, matched)
		}
	}
}
