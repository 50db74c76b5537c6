// Package questions segments reconstructed text lines into discrete
// question records.
//
// Segmentation is heuristic: a line opens a new question when it carries a
// recognizable question prefix ("Question 3", "2.", "1.4", "(b)"). Spans
// are bookkept per page, while question indices run globally across the
// whole document.
package questions
