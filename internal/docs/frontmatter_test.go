package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkimai/recursive-distill/schema"
)

func TestSplitFrontMatterYAML(t *testing.T) {
	input := []byte(`---
title: Attention Is Recursive
tags:
  - coherence
  - attention
scope:
  - transformer internals
recursion:
  depth: 3
residue:
  - the gradient story stays hand-wavy
  - description: cannot reconcile the two norm conventions
    section: Methods
    classification: acknowledged_contradiction
    valence: negative
    depth: deep
---
# Introduction

Body starts here.
`)

	meta, body, err := SplitFrontMatter(input)
	require.NoError(t, err)

	assert.Equal(t, "Attention Is Recursive", meta.Title)
	assert.Equal(t, []string{"coherence", "attention"}, meta.Tags)
	assert.Equal(t, []string{"transformer internals"}, meta.Scope)
	assert.Equal(t, 3, meta.Recursion.Depth)

	require.Len(t, meta.Residue, 2)
	assert.Equal(t, "the gradient story stays hand-wavy", meta.Residue[0].Description)
	assert.Empty(t, meta.Residue[0].Section, "string form carries only a description")
	assert.Equal(t, "cannot reconcile the two norm conventions", meta.Residue[1].Description)
	assert.Equal(t, "Methods", meta.Residue[1].Section)
	assert.Equal(t, schema.AcknowledgedContradiction, meta.Residue[1].Classification)
	assert.Equal(t, schema.NegativeValence, meta.Residue[1].Valence)
	assert.Equal(t, schema.DeepDepth, meta.Residue[1].Depth)

	assert.Contains(t, string(body), "# Introduction")
	assert.NotContains(t, string(body), "title:")
}

func TestSplitFrontMatterScalarTags(t *testing.T) {
	input := []byte("---\ntitle: Note\ntags: coherence\n---\nbody\n")

	meta, _, err := SplitFrontMatter(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"coherence"}, meta.Tags, "a scalar tag reads as a one-item list")
}

func TestSplitFrontMatterTOML(t *testing.T) {
	input := []byte(`+++
title = "Recursive Depth Ladders"
tags = ["recursion", "depth"]

[recursion]
depth = 2

[[residue]]
description = "ladder metaphor breaks past level four"
section = "Discussion"
+++
Body text.
`)

	meta, body, err := SplitFrontMatter(input)
	require.NoError(t, err)

	assert.Equal(t, "Recursive Depth Ladders", meta.Title)
	assert.Equal(t, []string{"recursion", "depth"}, meta.Tags)
	assert.Equal(t, 2, meta.Recursion.Depth)
	require.Len(t, meta.Residue, 1)
	assert.Equal(t, "ladder metaphor breaks past level four", meta.Residue[0].Description)
	assert.Equal(t, "Discussion", meta.Residue[0].Section)
	assert.Equal(t, "Body text.\n", string(body))
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	input := []byte("# Just a Heading\n\nNo metadata here.\n")

	meta, body, err := SplitFrontMatter(input)
	require.NoError(t, err)
	assert.Equal(t, schema.FrontMatter{}, meta)
	assert.Equal(t, input, body, "document without front matter passes through untouched")
}

func TestSplitFrontMatterUnclosedFence(t *testing.T) {
	input := []byte("---\ntitle: Oops\n# Heading\n")

	_, body, err := SplitFrontMatter(input)
	assert.Error(t, err)
	assert.Equal(t, input, body, "unclosed fence keeps the whole file as body")
}

func TestSplitFrontMatterBadYAML(t *testing.T) {
	input := []byte("---\ntitle: [unclosed\n---\nBody survives.\n")

	_, body, err := SplitFrontMatter(input)
	assert.Error(t, err)
	assert.Equal(t, "Body survives.\n", string(body), "decode failure still separates the body")
}

func TestSplitFrontMatterCRLF(t *testing.T) {
	input := []byte("---\r\ntitle: Windows Author\r\n---\r\nBody.\r\n")

	meta, body, err := SplitFrontMatter(input)
	require.NoError(t, err)
	assert.Equal(t, "Windows Author", meta.Title)
	assert.Contains(t, string(body), "Body.")
}

func TestSplitFrontMatterEmptyResidueDescriptionDropped(t *testing.T) {
	input := []byte("---\nresidue:\n  - description: \"\"\n    section: Methods\n  - kept entry\n---\nbody\n")

	meta, _, err := SplitFrontMatter(input)
	require.NoError(t, err)
	require.Len(t, meta.Residue, 1)
	assert.Equal(t, "kept entry", meta.Residue[0].Description)
}
