package index

// Key layout: d/<doc_id>, p/<token>, t/<trigram>, m/header.
const (
	prefixDocument = "d/"
	prefixPosting  = "p/"
	prefixTrigram  = "t/"
	keyHeader      = "m/header"
)

func docKey(id string) []byte      { return append([]byte(prefixDocument), id...) }
func postingKey(tok string) []byte { return append([]byte(prefixPosting), tok...) }
func trigramKey(g string) []byte   { return append([]byte(prefixTrigram), g...) }

func docIDFromKey(key []byte) string {
	return string(key[len(prefixDocument):])
}
