package scheduler

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
)

// faceOwner keys cached outlines by face. Its version fingerprints the boundary edges,
// their endpoints and the revisions of those endpoints, so any move invalidates it.
type faceOwner struct {
	key     string
	version uint64
	subs    string
}

var _ ports.CacheOwner = (*faceOwner)(nil)

func newFaceOwner(doc *domain.Document, face *domain.Entity) *faceOwner {
	d := xxhash.New()
	for _, key := range face.Edges {
		_, _ = d.WriteString(key)
		_, _ = d.WriteString("\x00")
		e, ok := doc.Edge(key)
		if !ok {
			continue
		}
		for _, vk := range []string{e.From, e.To} {
			_, _ = d.WriteString(vk)
			if v, ok := doc.Vertex(vk); ok {
				_, _ = d.WriteString(strconv.FormatUint(v.Revision, 10))
			}
			_, _ = d.WriteString("\x00")
		}
	}
	return &faceOwner{
		key:     face.Key(),
		version: d.Sum64(),
		subs:    strings.Join(face.Edges, domain.SubIdentityDelimiter),
	}
}

func (o *faceOwner) OwnerKey() string      { return o.key }
func (o *faceOwner) Version() uint64       { return o.version }
func (o *faceOwner) SubIdentities() string { return o.subs }
