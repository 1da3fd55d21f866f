package prompts

// itemTemplates holds the per-type instruction bodies. Keys are looked
// up in the candidate order built by Build: raw code, first code of a
// range, canonical family key, numeric fallback for the family.
//
// The bodies are opaque configuration: the rest of the system never
// inspects them beyond passage injection.
var itemTemplates = map[string]string{
	"RC18": `Create a Reading item: Purpose Identification.
- Passage: a formal letter or e-mail (100-130 words) with a clear communicative purpose
  (request, complaint, invitation, notice of change, expression of thanks).
- Question: "What is the purpose of the passage?"
- Options: 5 purpose statements; exactly one matches the writer's main intent.
- correct_answer: the option number as a string "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC19": `Create a Reading item: Mood / Attitude.
- Passage: a narrative scene (100-130 words) with a clear emotional arc or tone.
- Question: "Which best describes the narrator's change of mood?" or
  "Which best describes the speaker's attitude?"
- Options: 5 emotion or attitude pairs (e.g. "anxious -> relieved"); one fits the passage.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC20": `Create a Reading item: Writer's Claim.
- Passage: an argumentative text (110-140 words) advancing one clear claim with support.
- Question: "Which best states the writer's claim?"
- Options: 5 full-sentence claims; one restates the thesis, the rest distort scope or stance.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC21": `Create a Reading item: Underlined Expression Inference.
- Passage: an expository or narrative text (110-140 words) containing ONE figurative or
  idiomatic expression wrapped in <u>...</u> tags.
- Question: "What does the underlined expression mean in this passage?"
- Options: 5 paraphrases; exactly one captures the contextual meaning.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC22": `Create a Reading item: Main Point.
- Passage: an expository text (110-140 words) with one governing idea.
- Question: "Which best expresses the main point of the passage?"
- Options: 5 full-sentence statements; one generalizes the passage, the others
  cover only a detail, overreach, or contradict it.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC23": `Create a Reading item: Topic Identification.
- Passage: an expository text (110-140 words).
- Question: "Which best describes the topic of the passage?"
- Options: 5 short English noun phrases WITHOUT leading numbering or bullets.
- Distractor policy: partial coverage, over-generalization, or adjacent-but-unsupported topics.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC24": `Create a Reading item: Best Title.
- Passage: an expository text (110-140 words).
- Question: "Which is the best title for the passage?"
- Options: 5 title-style phrases (may use colons or questions); one fits the whole passage.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC25": `Create a Reading item: Chart Description Mismatch.
- Passage: EXACTLY five sentences, each prefixed with a circled numeral ① to ⑤,
  describing one chart or table (shares, percentages, year-over-year comparisons).
- Exactly ONE sentence must contradict the underlying figures implied by the others.
- Question: "Which sentence does NOT agree with the chart?"
- Options: ["①","②","③","④","⑤"]; correct_answer "1".."5" names the false sentence.
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC26": `Create a Reading item: Factual Match (biography).
- Passage: a short biographical text (110-140 words) with concrete facts
  (dates, places, works, positions).
- Question: "Which statement about the person agrees with the passage?" (or does NOT agree).
- Options: 5 full-sentence factual statements checkable against the passage.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC27": `Create a Reading item: Notice Mismatch.
- Passage: a notice or announcement laid out with labeled lines
  (Title:, Date:, Location:, Eligibility:, Registration:, Fee:, Contact:, Note:).
- Question must end with "does NOT agree with the notice?" phrasing and the word "NOT"
  wrapped as <u>NOT</u>.
- Options: 5 full-sentence statements about the notice; exactly one is inconsistent.
- correct_answer: "1".."5" pointing at the inconsistent statement.
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC28": `Create a Reading item: Notice Match.
- Passage: a notice or announcement with labeled sections as in RC27.
- Question asks which statement AGREES with the notice.
- Options: 5 full-sentence statements; exactly one is consistent with the notice.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC29": `Create a Reading item: Grammar Error Detection.
- Passage: an expository text (120-150 words) with FIVE grammar-bearing spans, each
  marked as ①<u>span</u> through ⑤<u>span</u> in order. Spans are 1-3 words.
- Exactly ONE span must be grammatically incorrect in context
  (agreement, tense, relative, modal, passive, or participle error).
- Question: "Among the underlined parts, which is grammatically incorrect?"
- Options: ["①","②","③","④","⑤"]; correct_answer "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC29_EDIT_ONE_FROM_CLEAN": `Create a Grammar Error Detection item from the provided CLEAN passage.
- Use the passage content as-is; do NOT rewrite, reorder, shorten, or extend it.
- Choose FIVE short grammar-bearing spans (1-3 words) already present in the passage,
  mark them ①<u>span</u> through ⑤<u>span</u> in order of appearance, and make
  EXACTLY ONE of them grammatically incorrect by replacing it with a wrong form
  (agreement, tense, relative, modal, passive, or participle error).
- Question: "Among the underlined parts, which is grammatically incorrect?"
- Options: ["①","②","③","④","⑤"]; correct_answer "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC30": `Create a Reading item: Inappropriate Word in Context.
- Passage: an expository text (120-150 words) with FIVE content words marked as
  ①<u>word</u> through ⑤<u>word</u> in order.
- Exactly ONE marked word must be contextually inappropriate (often a near-antonym
  of the word the context demands).
- Question: "Among the underlined words, which is NOT appropriate in context?"
- Options: ["①","②","③","④","⑤"]; correct_answer "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC31": `Create a Reading item: Blank Inference (word).
- Passage: an expository text (110-140 words) with EXACTLY ONE visible blank
  written as '_____'.
- Question: "Which best fits the blank in the passage?"
- Options: 5 single words or short noun phrases (2-3 words max); one completes
  the blank coherently with the surrounding logic.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC32": `Create a Reading item: Blank Inference (phrase).
- Passage: an expository text (120-150 words) with EXACTLY ONE blank '_____'
  covering a meaningful phrase.
- Question: "Which best fits the blank in the passage?"
- Options: 5 phrases of comparable length and register; one fits the logic.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC33": `Create a Reading item: Blank Inference (clause).
- Passage: an abstract expository text (130-160 words) with EXACTLY ONE blank
  '_____' covering a full clause at a logically pivotal position.
- Question: "Which best fits the blank in the passage? [3 points]"
- Options: 5 clauses; distractors apply to only part of the argument or invert it.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC34": `Create a Reading item: Blank Inference (topic-sentence predicate).
## ABSOLUTE RULES (DO NOT VIOLATE)
1. The blank (_____) MUST appear only in the very first sentence of the passage:
   subject first, then '_____' covering the entire predicate.
2. Passage length MUST be 130-150 words.
3. Body structure: Example 1 -> Example 2 -> Example 3, all supporting one general
   principle; final sentence reaffirms the principle.
4. Include at least 3 academic-register words (integrate, facilitate, exemplify,
   sustain, demonstrate, mechanism, ...).
- Question: "Which best fits the blank in the passage? [3 points]"
- Options: 5 complete predicates that could follow the opening subject.
- correct_answer: "1".."5" (the predicate stating the inductive conclusion).
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC35": `Create a Reading item: Irrelevant Sentence.
- Passage: EXACTLY five sentences labeled ① to ⑤ in order.
- Four sentences develop one topic; exactly ONE breaks the flow (off-topic or
  contradicting the main idea) while staying grammatical in isolation.
- Question EXACTLY: "Which sentence does <u>not</u> fit the overall flow of the passage?"
- Options EXACTLY: ["①","②","③","④","⑤"]; correct_answer a STRING digit "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,

	"RC36": `Create a Reading item: Paragraph Ordering.
- Write an intro_paragraph (40-70 words) and three continuations labeled (A), (B), (C)
  (each 35-70 words) with exactly ONE natural logical order among them.
- The natural order must NOT be (A)-(B)-(C).
- Question EXACTLY: "Which is the most appropriate order of the paragraphs following the given text?"
- options EXACTLY: ["(A)-(C)-(B)","(B)-(A)-(C)","(B)-(C)-(A)","(C)-(A)-(B)","(C)-(B)-(A)"].
- correct_answer: a STRING digit "1".."5" (index of the correct pattern).
Return JSON: {"question","intro_paragraph","passage_parts":{"(A)","(B)","(C)"},
"options","correct_answer","explanation"}.`,

	"RC37": `Create a Reading item: Paragraph Ordering (advanced).
Same contract as RC36 but with denser cohesion devices: the order must be
recoverable only through referential chains (pronouns, definite descriptions)
and discourse connectives, not through surface topic words. [3 points]
Return JSON: {"question","intro_paragraph","passage_parts":{"(A)","(B)","(C)"},
"options","correct_answer","explanation"}.`,

	"RC38": `Create a Reading item: Sentence Insertion.
- Write a given_sentence and a passage containing position markers ( ① ) through ( ⑤ )
  between sentences. The given sentence fits at exactly one marker.
- Question EXACTLY: "Considering the flow, where is the best place for the given sentence?"
- options EXACTLY: ["①","②","③","④","⑤"]; correct_answer a STRING digit "1".."5".
Rules: no markdown, no code fences, no trailing commas; strings must be valid JSON strings.
Return JSON: {"question","given_sentence","passage","options","correct_answer","explanation"}.`,

	"RC39": `Create a Reading item: Sentence Insertion (argumentative).
Same contract as RC38 but the passage is an argumentative text and the given
sentence is a pivot (however/nevertheless move) that must land at the reasoning
turn. [3 points]
Return JSON: {"question","given_sentence","passage","options","correct_answer","explanation"}.`,

	"RC40": `Create a Reading item: Summary Completion.
- Passage: an expository text (130-160 words).
- summary_template: one sentence summarizing the passage with two blanks (A) and (B).
- Options: 5 pairs formatted "wordA - wordB"; exactly one pair completes the summary.
- Question: "Which best completes the summary of the passage?"
- correct_answer: "1".."5".
Return JSON: {"question","passage","summary_template","options","correct_answer",
"explanation"} (optional helper fields "summary_A","summary_B").`,

	"RC41": `Create a Reading SET item (Q41-Q42).
- Passage: a long expository text (200-250 words, 2-3 paragraphs) with five content
  words marked (a)<u>word</u> through (e)<u>word</u>; exactly one is contextually wrong.
- questions: a list of two objects:
  Q41 {question_number: 41, question about the best title, options: 5 titles}
  Q42 {question_number: 42, question asking which of (a)-(e) is inappropriate,
       options: ["(a)","(b)","(c)","(d)","(e)"]}
- Each question carries correct_answer "1".."5" and an explanation.
Return JSON: {"set_instruction","passage","questions"}.`,

	"RC41_42_EDIT_ONE_FROM_CLEAN": `Create a Reading SET item (Q41-Q42) from the provided CLEAN passage.
- Use the passage content as-is; do NOT rewrite or reorder it.
- Choose five content words, mark them (a)<u>word</u> through (e)<u>word</u> in order,
  and replace EXACTLY ONE of them with a contextually wrong near-antonym.
- questions: Q41 (best title, 5 title options) and Q42 (which of (a)-(e) is
  inappropriate, options ["(a)","(b)","(c)","(d)","(e)"]).
- Each question carries correct_answer "1".."5" and an explanation.
Return JSON: {"set_instruction","passage","questions"}.`,

	"RC43_45": `Create a Reading SET item (Q43-Q45).
- passage_parts: four narrative paragraphs keyed "A","B","C","D"; (A) opens the story,
  (B)-(D) continue it in a scrambled presentation order.
- questions: three objects numbered 43 (correct order of the parts),
  44 (referent identification among underlined pronouns), 45 (factual match).
- Each question: 5 options, correct_answer "1".."5", explanation.
- item_type MUST be "RC_SET".
Return JSON: {"item_type","set_instruction","passage_parts","questions"}.`,

	"RC43_45_EDIT_ONE_FROM_CLEAN": `Create a Reading SET item (Q43-Q45) from the provided CLEAN passage.
- Split the passage's content into four parts keyed "A","B","C","D" without inventing
  new facts; (A) must be the natural opening.
- questions: 43 (order), 44 (referent), 45 (factual match), each with 5 options,
  correct_answer "1".."5", explanation.
- item_type MUST be "RC_SET".
Return JSON: {"item_type","set_instruction","passage_parts","questions"}.`,

	"LC01": `Create a Listening item: Purpose Identification.
- transcript: a formal monologue (60-80 words): greeting -> identity -> main
  announcement -> details -> closing. Mark speakers "M:" / "W:" when dialogic.
- Question: "What is the purpose of the talk?"
- Options: 5 purpose statements; correct_answer "1".."5".
Return JSON: {"transcript","question","options","correct_answer","explanation"}.`,

	"LC06": `Create a Listening item: Payment Amount.
- transcript: a shop dialogue (M:/W: lines) where unit prices, quantities, and a
  discount lead to one computable total.
- STRICT: use WHOLE-dollar amounts everywhere. No decimal numbers may appear in the
  transcript, question, options, or explanation.
- Question: "How much will the man/woman pay?"
- Options: 5 dollar amounts; correct_answer "1".."5".
Return JSON: {"transcript","question","options","correct_answer","explanation"}.`,

	"LC10": `Create a Listening item: Chart Reference.
- transcript: a dialogue (M:/W: lines) discussing a table of options (e.g. classes,
  rentals) and eliminating rows by criteria until one remains.
- chart_data: the table as a JSON object mirroring the dialogue.
- Question: "Which option will the speakers choose?"
- Options: 5 row labels; correct_answer "1".."5".
Return JSON: {"transcript","question","options","correct_answer","explanation","chart_data"}.`,

	"LC16": `Create a Listening SET item (two questions on one lecture).
- transcript: an academic monologue (130-160 words) introducing a topic and examples.
- questions: two objects, each {question, options (5), correct_answer "1".."5",
  explanation}; the first asks the topic, the second a detail or mismatch.
- set_instruction: one line introducing the set.
Return JSON: {"set_instruction","transcript","questions"}.`,

	"RC_GENERIC": `Create a standard five-option Reading item for the requested type code.
- Passage: an expository text (110-140 words) unless a passage is provided.
- Question: one clear question answerable from the passage alone.
- Options: 5 choices; exactly one correct.
- correct_answer: "1".."5".
Return JSON: {"question","passage","options","correct_answer","explanation"}.`,
}
