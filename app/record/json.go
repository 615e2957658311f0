package record

import (
	"encoding/json"
	"fmt"
	"math"
)

// UnmarshalJSON decodes the known article fields and collects everything
// else into Extra. Numeric fields accept both integer and float
// encodings, and null is treated as the zero value, matching data
// written by earlier front-end versions of the site.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Article
	for key, value := range raw {
		var err error
		switch key {
		case "id":
			out.ID, err = decodeInt(value)
		case "title":
			err = decodeString(value, &out.Title)
		case "category":
			err = decodeString(value, &out.Category)
		case "author":
			err = decodeString(value, &out.Author)
		case "authorId":
			out.AuthorID, err = decodeInt(value)
		case "status":
			err = decodeString(value, &out.Status)
		case "image":
			err = decodeString(value, &out.Image)
		case "summary":
			err = decodeString(value, &out.Summary)
		case "content":
			err = decodeString(value, &out.Content)
		case "views":
			out.Views, err = decodeInt(value)
		case "engagement":
			out.Engagement, err = decodeInt(value)
		case "publishDate":
			err = decodeString(value, &out.PublishDate)
		case "createdAt":
			err = decodeString(value, &out.CreatedAt)
		case "updatedAt":
			err = decodeString(value, &out.UpdatedAt)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("article field %q: %w", key, err)
		}
	}

	*a = out
	return nil
}

// MarshalJSON writes the known fields plus any Extra fields verbatim.
// PublishDate serializes as null when unset and updatedAt is omitted
// until the first update, so re-saving a loaded record reproduces it.
func (a Article) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Extra)+14)
	for key, value := range a.Extra {
		out[key] = value
	}

	out["id"] = a.ID
	out["title"] = a.Title
	out["category"] = a.Category
	out["author"] = a.Author
	out["authorId"] = a.AuthorID
	out["status"] = a.Status
	out["image"] = a.Image
	out["summary"] = a.Summary
	out["content"] = a.Content
	out["views"] = a.Views
	out["engagement"] = a.Engagement
	out["createdAt"] = a.CreatedAt

	if a.PublishDate == "" {
		out["publishDate"] = nil
	} else {
		out["publishDate"] = a.PublishDate
	}
	if a.UpdatedAt != "" {
		out["updatedAt"] = a.UpdatedAt
	}

	return json.Marshal(out)
}

// clone returns an independent copy of the article. The Extra map is
// duplicated so callers can never reach the stored record through it.
func (a Article) clone() Article {
	cp := a
	if a.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(a.Extra))
		for key, value := range a.Extra {
			cp.Extra[key] = value
		}
	}
	return cp
}

func decodeInt(value json.RawMessage) (int64, error) {
	if string(value) == "null" {
		return 0, nil
	}

	var n int64
	if err := json.Unmarshal(value, &n); err == nil {
		return n, nil
	}

	// Data written by JSON.stringify can carry integer values in float
	// form; accept them as long as they are whole numbers.
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return 0, fmt.Errorf("not a number: %s", value)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %s", value)
	}
	return int64(f), nil
}

func decodeString(value json.RawMessage, dst *string) error {
	if string(value) == "null" {
		*dst = ""
		return nil
	}
	return json.Unmarshal(value, dst)
}
