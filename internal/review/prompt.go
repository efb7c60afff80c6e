package review

import (
	"strconv"
	"strings"
)

// Prompt templates use {name} placeholders filled with strings.Replacer so
// diff content containing format verbs never breaks assembly.

const contextSystemPrompt = "You are a technical architect analyzing code changes."

const contextPrompt = `You are analyzing a git diff for a Merge Request (MR).

GIT DIFF:
` + "```diff\n{diff}\n```" + `

TASK: Create a comprehensive MR context file that will help code reviewers understand the global scope of changes.

OUTPUT FORMAT (in English):

---
# MR Context - Global Changes Overview

**Generated:** {timestamp}

---

## Summary

[2-3 sentences: what is the main goal of this MR]

---

## Files Changed ({file_count})

### New Files
### Modified Files
### Deleted Files

List each file with a brief note on what changed and why.

---

## Affected Components

List affected packages/modules and what changed in each.

---

## API Changes

Describe added/removed/modified public methods, classes, or endpoints. Flag
breaking changes explicitly. If there are none, write "No public API changes
detected."

---

## Dependencies Between Files

List files in this MR that depend on each other, noting whether the required
counterpart change is present in the same MR. If files are independent,
write "No significant cross-file dependencies detected."

---

## Potential Risks

### High Risk
### Medium Risk
### Low Risk

---

## Test Coverage

List test files in this MR and what they cover, then production files
without corresponding test changes.

---

RULES:
1. Be specific - mention actual class/method names from the diff
2. Focus on CHANGES, not entire file content
3. Identify cross-file dependencies
4. Flag breaking changes prominently
5. Use "No X detected" if a section is empty (don't skip sections)
6. Write in English`

const chunkSystemPrompt = "You are a strict code reviewer analyzing one file of a merge request."

const chunkPrompt = `You are the second stage of a Merge Request analysis chain.

**Your role:** Analyze ONE file in depth and find EVERY problem in it.

**Important:** Your output is aggregated into a final report at the next
stage, so record findings in a STRUCTURED and COMPLETE form.

---

**GLOBAL MR CONTEXT:**
{mr_context}

---

**FILE UNDER REVIEW:** {filename}

**GIT DIFF (what this MR changes in the file):**
` + "```diff\n{diff}\n```" + `

**ORIGINAL FILE (state BEFORE this MR):**
` + "```\n{original}\n```" + `

---

**YOUR TASK:**

1. Analyze the changes in the file
2. Find ALL bugs and problems, graded CRITICAL/HIGH/MEDIUM/LOW
3. Record everything in a structured form for aggregation

**CRITICAL:**
- Use the "Dependencies Between Files" section of the MR context so you do
  not flag things that are added in other files of this same MR
- Distinguish the ORIGINAL FILE (before the MR) from the DIFF (the MR's
  changes): a field present only in the DIFF with a + is a new addition,
  not a duplicate; a field present in BOTH is a duplicate and a problem

---

**OUTPUT FORMAT:**

# {filename}

## SUMMARY
[1-2 sentences: what changed in this file]

## FINDINGS

For EACH finding use this format:

### [LEVEL] [Category] - Short title

**File:** [file name]
**Line:** [line number or range]
**Problem:** [what is wrong]
**Impact:** [how this affects production/users]
**Fix:** [a concrete suggestion]

**Code:**
` + "```\n[the problematic code from the diff]\n```" + `

LEVELS:
- **CRITICAL** - crashes, data loss, security vulnerabilities, race
  conditions, undocumented breaking changes
- **HIGH** - logic errors, wrong algorithms, significant performance
  regressions
- **MEDIUM** - missing validation, code smells, suboptimal solutions
- **LOW** - code style, minor improvements

CATEGORIES: Bug, Security, Performance, Logic, API Breaking, Validation, Style

**IF THERE ARE NO FINDINGS:**

## FINDINGS

No problems found. The changes look safe.

---

RULES:
1. Be thorough - a false positive beats a missed bug
2. Use the dependency context - do not flag what other files of this MR add
3. Keep every finding in the same structure (it is parsed downstream)
4. Cite concrete lines of code`

const summarySystemPrompt = "You are a technical lead producing a final merge request review report for another lead who is not familiar with the change."

const summaryPrompt = `You are the team lead's assistant. Produce the final summary report for a
Merge Request (MR).

The lead manages many projects and is not familiar with this MR. They need a
digest to decide between: merge, send back for fixes (bugs found), or block
(critical problems or breaking changes).

You have two sources:
1. **MR CONTEXT** - the global goal of the MR.
2. **FILE REVIEWS** - a per-file analysis with all findings.

---

### SOURCE 1: MR CONTEXT
{mr_context}

---

### SOURCE 2: FILE REVIEWS
{reviews}

---

### INSTRUCTIONS:

1. **Synthesize, don't copy:** if five files share one problem, describe it
   once and list the files.
2. **Lead with "why":** explain the business goal of the change first, then
   how it was implemented.
3. **Filter noise:** skip files whose review found nothing; mention LOW
   style notes only if they are numerous.
4. **Breaking changes are priority one:** anything affecting public APIs or
   configuration gets its own block.

---

### OUTPUT FORMAT (Markdown):

# Code Review Report

**Date:** {timestamp}
**Files reviewed:** {files_count}

## Verdict
[Pick exactly one, in bold:]
- **LOOKS SAFE** (no bugs, logic is clear)
- **NEEDS FIXES** (HIGH/MEDIUM findings, fix before merge)
- **BLOCKING PROBLEMS** (CRITICAL bugs, vulnerabilities, or unexpected breaking changes)

## What Changed
**Goal:** [why this MR exists]
**Implementation:** [main modules touched, new components, refactorings]

## Breaking Changes & User Impact
[Describe in detail, or "None detected".]

## Findings Summary
[Group findings across all files by level: CRITICAL, HIGH, MEDIUM, then a
short LOW list. For each: problem, where, impact. Skip empty levels.]

## Technical Details & Refactoring
[Changes that are not bugs but matter for understanding the scope.]

## Recommendations
[What to verify manually, what to watch during deployment.]`

func renderContextPrompt(diff, timestamp string, fileCount int) string {
	return strings.NewReplacer(
		"{diff}", diff,
		"{timestamp}", timestamp,
		"{file_count}", strconv.Itoa(fileCount),
	).Replace(contextPrompt)
}

func renderChunkPrompt(mrContext, filename, diff, original string) string {
	return strings.NewReplacer(
		"{mr_context}", mrContext,
		"{filename}", filename,
		"{diff}", diff,
		"{original}", original,
	).Replace(chunkPrompt)
}

func renderSummaryPrompt(mrContext, reviews, timestamp string, filesCount int) string {
	return strings.NewReplacer(
		"{mr_context}", mrContext,
		"{reviews}", reviews,
		"{timestamp}", timestamp,
		"{files_count}", strconv.Itoa(filesCount),
	).Replace(summaryPrompt)
}
