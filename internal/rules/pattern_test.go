package rules

import "testing"

func TestCompileTrailingDoubleStarMatchesContentsNotDirectoryItself(t *testing.T) {
	rule, err := Compile("build/**", "", Origin{Kind: OriginCLIExclude, Level: LevelCLIExclude})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if rule.Match("build", true) {
		t.Fatal("trailing /** must not match the directory itself")
	}
	if !rule.Match("build/x.txt", false) {
		t.Fatal("trailing /** must match a file directly inside the directory")
	}
	if !rule.Match("build/sub/y.txt", false) {
		t.Fatal("trailing /** must match a file nested arbitrarily deep inside the directory")
	}
	if rule.Match("buildx", false) {
		t.Fatal("trailing /** must not match a sibling name that merely shares the prefix")
	}
}

func TestCompileLeadingDoubleStarMatchesAnyDepth(t *testing.T) {
	rule, err := Compile("**/foo", "", Origin{Kind: OriginCLIExclude, Level: LevelCLIExclude})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !rule.Match("foo", false) {
		t.Fatal("leading **/ must also match at the root")
	}
	if !rule.Match("a/b/foo", false) {
		t.Fatal("leading **/ must match foo at any depth")
	}
}

func TestCompileInternalDoubleStarMatchesZeroOrMoreDirectories(t *testing.T) {
	rule, err := Compile("a/**/b", "", Origin{Kind: OriginCLIExclude, Level: LevelCLIExclude})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !rule.Match("a/b", false) {
		t.Fatal("internal /**/ must match zero intervening directories")
	}
	if !rule.Match("a/x/b", false) {
		t.Fatal("internal /**/ must match one intervening directory")
	}
	if !rule.Match("a/x/y/b", false) {
		t.Fatal("internal /**/ must match several intervening directories")
	}
}

func TestCompileDirOnlyTrailingSlashStripped(t *testing.T) {
	rule, err := Compile("build/", "", Origin{Kind: OriginCLIExclude, Level: LevelCLIExclude})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !rule.DirOnly {
		t.Fatal("expected DirOnly for a trailing-slash pattern")
	}
	if rule.Match("build", false) {
		t.Fatal("dir-only rule must not match a non-directory candidate")
	}
	if !rule.Match("build", true) {
		t.Fatal("dir-only rule must match the directory itself")
	}
}
