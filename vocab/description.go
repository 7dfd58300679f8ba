package vocab

import (
	"fmt"
	"strings"
)

// compositeDescription summarises which languages a term's labels and
// comments are provided in. Definitions count as comments. The labels are
// sorted by language as a side effect.
func compositeDescription(labels, comments, definitions []Literal) string {
	allComments := make([]Literal, 0, len(comments)+len(definitions))
	allComments = append(allComments, comments...)
	allComments = append(allComments, definitions...)

	labelTags := sortByLanguage(labels)
	commentTags := sortByLanguage(allComments)

	if len(labels) == 0 && len(comments) == 0 {
		return "This term has no descriptions at all (i.e., the vocabulary doesn't provide any " +
			"'rdfs:label', 'rdfs:comment', or 'dcterms:description', or 'skos:definition' metadata)."
	}

	if len(allComments) == 0 {
		labelDescription := "a label"
		if len(labels) != 1 {
			labelDescription = fmt.Sprintf("[%d] labels", len(labels))
		}
		return fmt.Sprintf("This term has %s (in language%s [%s]), but no long-form descriptions at all "+
			"(i.e., the vocabulary doesn't provide any 'rdfs:comment' or 'dcterms:description' metadata).",
			labelDescription, plural(len(labels), "s"), labelTags)
	}

	if len(labels) == 1 && len(allComments) == 1 {
		label, comment := labels[0].Language, allComments[0].Language
		switch {
		case strings.HasPrefix(label, "en") && strings.HasPrefix(comment, "en"):
			return "This term provides descriptions only in English."
		case label == "" && comment == "":
			return "This term provides descriptions only with no explicit locale."
		}
	}

	return describeMultipleLanguages(labels, labelTags, allComments, commentTags)
}

func describeMultipleLanguages(labels []Literal, labelTags string, comments []Literal, commentTags string) string {
	if labelTags == commentTags {
		s := plural(len(labels), "s")
		return fmt.Sprintf("This term has [%d] label%s and comment%s, in the language%s [%s].",
			len(labels), s, s, s, labelTags)
	}

	labelLanguages := ""
	if labelTags != "" {
		labelLanguages = fmt.Sprintf(" in %s [%s]", languageNoun(len(labels)), labelTags)
	}
	labelDetails := fmt.Sprintf("[%d] label%s%s", len(labels), plural(len(labels), "s"), labelLanguages)
	commentDetails := fmt.Sprintf("[%d] comment%s in %s [%s]",
		len(comments), plural(len(comments), "s"), languageNoun(len(comments)), commentTags)

	// A difference only between English and NoLocale values is no mismatch,
	// as long as both sides have at least one of them.
	otherLabelTags := nonEnglishLanguages(labels)
	otherCommentTags := nonEnglishLanguages(comments)
	mismatch := otherLabelTags != otherCommentTags ||
		countEnglishOrNoLocale(labels) == 0 ||
		countEnglishOrNoLocale(comments) == 0

	intro := "This term provides multilingual descriptions"
	if otherLabelTags == "" && otherCommentTags == "" {
		intro = "The term has a description only in English"
	}

	mismatchNote, sameNote := "", ""
	if mismatch {
		mismatchNote = "but has a mismatch between its labels and comments, "
	} else {
		sameNote = " (so the difference is only between English and NoLocale, which we consider the same)"
	}
	return fmt.Sprintf("%s, %swith %s, but %s%s.", intro, mismatchNote, labelDetails, commentDetails, sameNote)
}

func languageNoun(n int) string {
	if n == 1 {
		return "the language"
	}
	return "languages"
}
