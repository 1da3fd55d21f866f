package prompts

import (
	"strings"
	"testing"
)

func TestBuildUsesExactTemplate(t *testing.T) {
	p := Generate("RC36", "medium", "random", "")
	if !strings.Contains(p, "Paragraph Ordering") {
		t.Fatalf("RC36 template not selected:\n%s", p[:200])
	}
}

func TestBuildRangeCodeFallsBackToFirstMember(t *testing.T) {
	p := Generate("RC41_42", "medium", "random", "")
	if !strings.Contains(p, "Reading SET item (Q41-Q42)") {
		t.Fatal("RC41_42 did not land on the RC41 template")
	}
}

func TestBuildUnknownCodeLandsOnFamilyFallback(t *testing.T) {
	// RC99 is outside every family range, so the generic template backs it.
	p := Generate("RC99", "medium", "random", "")
	if !strings.Contains(p, "five-option Reading item") {
		t.Fatal("unknown code did not reach RC_GENERIC")
	}
	// LC codes without a template share the listening family.
	p = Generate("LC03", "medium", "random", "")
	if !strings.Contains(p, "Listening item") {
		t.Fatal("LC03 did not reach the listening fallback")
	}
}

func TestBuildAppendsDifficultyAndTopic(t *testing.T) {
	p := Build(BuildInput{ItemType: "RC22", Difficulty: "hard", Topic: "biology"})
	if !strings.Contains(p, "HARD item") {
		t.Fatal("difficulty instruction missing")
	}
	if !strings.Contains(p, "Topic constraint:") {
		t.Fatal("topic constraint missing")
	}

	random := Build(BuildInput{ItemType: "RC22", Difficulty: "medium", Topic: "random"})
	if strings.Contains(random, "Topic constraint:") {
		t.Fatal("random topic must add no constraint")
	}
}

func TestBuildOverlayToggle(t *testing.T) {
	with := Build(BuildInput{ItemType: "RC22", Difficulty: "medium"})
	without := Build(BuildInput{ItemType: "RC22", Difficulty: "medium", DisableOverlay: true})
	if !strings.Contains(with, "QUALITY OVERLAY") {
		t.Fatal("overlay missing from default build")
	}
	if strings.Contains(without, "QUALITY OVERLAY") {
		t.Fatal("overlay present despite DisableOverlay")
	}
}

func TestWithPassage(t *testing.T) {
	replaced := WithPassage("Intro <PASSAGE> outro", "TEXT")
	if replaced != "Intro TEXT outro" {
		t.Fatalf("token not replaced: %q", replaced)
	}

	appended := WithPassage("No block here.", "TEXT")
	if !strings.Contains(appended, "```passage\nTEXT\n```") {
		t.Fatalf("passage block not appended: %q", appended)
	}

	fenced := "Already has:\n```passage\nOLD\n```"
	if WithPassage(fenced, "TEXT") != fenced {
		t.Fatal("existing fenced block must not be duplicated")
	}

	if WithPassage("Prompt.", "  ") != "Prompt." {
		t.Fatal("blank passage must leave the prompt untouched")
	}
}

func TestHasPassageBlock(t *testing.T) {
	if !HasPassageBlock("x ```passage\ny\n```") || !HasPassageBlock("x <PASSAGE> y") {
		t.Fatal("block forms not recognized")
	}
	if HasPassageBlock("plain prompt") {
		t.Fatal("false positive")
	}
}

func TestLooksLikeNewPassage(t *testing.T) {
	if !LooksLikeNewPassage("Here is a passage about birds.") {
		t.Fatal("invented-passage marker missed")
	}
	if LooksLikeNewPassage("The original passage argues that birds migrate.") {
		t.Fatal("false positive on ordinary prose")
	}
}
