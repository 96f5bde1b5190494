// Package translate maps between the two identifier namespaces used by the
// missions API.
//
// The internal namespace is what the catalog source data and the
// recommendation model use: mission ids like "M001", user ids like "U0001",
// and titlecase category tags like "Self-Dev". The public namespace is what
// clients send and receive: "mission-1", "user-1", and lowercase tags like
// "study". Some public categories also have synonyms ("exercise" for
// "sports").
//
// A Translator is built once from a Table and passed to every component that
// needs it:
//
//	tr, err := translate.New(translate.DefaultTable())
//	id, ok := tr.ToInternalID("mission-7") // "M007", true
//
// Unrecognized input is reported through the boolean result and never as an
// error. Callers decide whether that means "no filter" or "pass the value
// through".
package translate
