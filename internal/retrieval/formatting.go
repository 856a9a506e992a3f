package retrieval

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// headerKeys is the fixed order of metadata rendered in a document header.
var headerKeys = []string{
	MetaPlaceID,
	MetaName,
	MetaNameAr,
	MetaFloor,
	MetaBuilding,
	MetaCorridor,
	MetaCategory,
	MetaLang,
}

// FormatContext renders documents as "[Doc i: k=v,...]\n\n<content>" blocks in ranked
// order. A block that would push the total past maxChars ends the context; blocks are
// never cut in half.
func FormatContext(docs []Document, maxChars int) string {
	parts := make([]string, 0, len(docs))
	total := 0
	for i, doc := range docs {
		block := fmt.Sprintf("[Doc %d: %s]\n\n%s", i+1, metadataHeader(doc.Metadata), strings.TrimSpace(doc.Content))
		size := utf8.RuneCountInString(block)
		if maxChars > 0 && total+size > maxChars {
			break
		}
		parts = append(parts, block)
		total += size
	}
	return strings.Join(parts, "\n\n")
}

func metadataHeader(meta map[string]string) string {
	pairs := make([]string, 0, len(headerKeys))
	for _, key := range headerKeys {
		if value := strings.TrimSpace(meta[key]); value != "" {
			pairs = append(pairs, key+"="+value)
		}
	}
	return strings.Join(pairs, ",")
}

// MergeUnique concatenates result sets and drops duplicates. Two documents are
// duplicates when the first prefixChars runes of their content and their full sorted
// metadata are identical. The first occurrence wins and relative order is kept.
func MergeUnique(prefixChars int, sets ...[]Document) []Document {
	seen := make(map[string]struct{})
	var out []Document
	for _, set := range sets {
		for _, doc := range set {
			key := dedupKey(doc, prefixChars)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, doc)
		}
	}
	return out
}

func dedupKey(doc Document, prefixChars int) string {
	content := doc.Content
	if prefixChars > 0 {
		runes := []rune(content)
		if len(runes) > prefixChars {
			content = string(runes[:prefixChars])
		}
	}

	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(content)
	for _, k := range keys {
		b.WriteByte(0x1f)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(doc.Metadata[k])
	}
	return b.String()
}

// contentLength is the total rune count of the documents' content.
func contentLength(docs []Document) int {
	total := 0
	for _, doc := range docs {
		total += utf8.RuneCountInString(doc.Content)
	}
	return total
}
