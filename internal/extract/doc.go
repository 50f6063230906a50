// Package extract turns OCR text from a product label into a fixed Record.
//
// Extraction applies four independent regular-expression rules, one per
// field. Each rule scans the text left to right and keeps the first match;
// there is no scoring and no attempt to pick a "better" candidate later in
// the text. A rule that finds nothing yields NotFound.
//
// # Rules
//
//   - Net weight: digits followed by the letter g, e.g. "500g" or "250G".
//     No other unit is recognized.
//   - Manufacturing date: DD/DD/DD with no calendar validation, so
//     "99/99/99" is accepted.
//   - MRP: a bare price such as "199.00" or "45,50" anywhere in the text.
//     Only when no bare price exists does the "MRP: 45.50" label form apply,
//     and then only the number is returned.
//   - Batch number: any standalone token of exactly seven uppercase letters
//     or digits.
//
// # Token Boundaries
//
// A match only counts when it is not glued to a word character, judged the
// Unicode way: any letter, any number or an underscore. "é500g" therefore
// has no net weight. Digits may come from any script, so "५००g" is a
// weight and "١٢/٠٥/٢٤" a date. Batch numbers stay ASCII.
//
// # Overlap
//
// The rules do not consume text. A single span may satisfy more than one
// rule (a seven-digit price token also looks like a batch number) and every
// rule that matches it reports it. Downstream consumers rely on this
// behavior, so it is kept.
//
// # Concurrency
//
// Extract is a pure function over package-level compiled expressions and is
// safe to call from any number of goroutines.
package extract
