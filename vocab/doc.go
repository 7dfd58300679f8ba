// Package vocab turns a parsed vocabulary into the input of the artifact
// templates.
//
// A Handler looks at two datasets: the full vocabulary (every input
// resource merged together) and an optional term selection, which picks the
// subset of terms to generate and can add labels, comments and translations
// of its own. BuildTemplateInput works out the vocabulary IRI, its namespace
// and prefix, its description and authors, and classifies every selected
// subject as a class, property, literal or constant.
//
// Errors returned by the handler are meant for the person who wrote the
// vocabulary list file, so they spell out what was found and how to fix it.
package vocab
