package resource

import (
	"strings"

	"github.com/nvellon/hal"
)

type Resource interface {
	LinkSelf() string
	Resource() *hal.Resource
	GetMap() hal.Entry
}

type ResourceList struct {
	Resources []Resource
	SelfLink  string
	NextLink  string
	PrevLink  string
}

func NewResourceList(list []Resource, selfLink, nextLink, prevLink string) *ResourceList {
	rl := &ResourceList{
		Resources: list,
		SelfLink:  selfLink,
		NextLink:  nextLink,
		PrevLink:  prevLink,
	}

	return rl
}

func (l ResourceList) Resource() *hal.Resource {
	rl := hal.NewResource(struct{}{}, l.LinkSelf())

	rCollection := hal.ResourceCollection{}
	for _, apiResource := range l.Resources {
		rCollection = append(rCollection, apiResource.Resource())
	}
	rl.EmbedCollection("records", rCollection)

	if l.PrevLink != "" {
		rl.AddLink("prev", hal.NewLink(l.PrevLink))
	}
	if l.NextLink != "" {
		rl.AddLink("next", hal.NewLink(l.NextLink))
	}

	return rl
}

func (l ResourceList) LinkSelf() string {
	return l.SelfLink
}

func (l ResourceList) GetMap() hal.Entry {
	return hal.Entry{}
}

func replaceID(url string, id string) string {
	return strings.Replace(url, "{id}", id, -1)
}

func templated(url string) hal.Link {
	return hal.NewLink(url+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true})
}
