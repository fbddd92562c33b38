// Package names holds the bundle codec's frozen name dictionaries and the
// NameCodec that reads and writes a Name using them plus a per-bundle
// namespace cache. The dictionary contents are a wire-format constant: any
// implementation that changes a slot's mapping produces bundles that do not
// interoperate with one written before the change.
package names

import "github.com/arloliu/bundlecodec/model"

// CommonNamespaces is the frozen 7-entry namespace table indexed 0..6 by a
// NameCodec header's ns field. Index 7 is never stored here: it is the
// escape code meaning "read an explicit URI from the wire".
var CommonNamespaces = [7]string{
	model.NSEmpty,
	model.NSJCR,
	model.NSNT,
	model.NSMix,
	model.NSRep,
	model.NSSV,
	model.NSXSI,
}

// CommonNames is the frozen 128-entry name table a NameCodec header byte
// with its high bit clear indexes directly. The contents mirror the
// built-in item and node type names a content repository resolves most
// often, so that typical bundles spend one byte per name instead of a
// full namespace-plus-local-name encoding.
var CommonNames = [128]model.Name{
	{NamespaceURI: model.NSJCR, LocalName: "primaryType"},
	{NamespaceURI: model.NSJCR, LocalName: "mixinTypes"},
	{NamespaceURI: model.NSJCR, LocalName: "uuid"},
	{NamespaceURI: model.NSJCR, LocalName: "created"},
	{NamespaceURI: model.NSJCR, LocalName: "createdBy"},
	{NamespaceURI: model.NSJCR, LocalName: "lastModified"},
	{NamespaceURI: model.NSJCR, LocalName: "lastModifiedBy"},
	{NamespaceURI: model.NSJCR, LocalName: "content"},
	{NamespaceURI: model.NSJCR, LocalName: "data"},
	{NamespaceURI: model.NSJCR, LocalName: "encoding"},
	{NamespaceURI: model.NSJCR, LocalName: "mimeType"},
	{NamespaceURI: model.NSJCR, LocalName: "title"},
	{NamespaceURI: model.NSJCR, LocalName: "description"},
	{NamespaceURI: model.NSJCR, LocalName: "language"},
	{NamespaceURI: model.NSJCR, LocalName: "name"},
	{NamespaceURI: model.NSJCR, LocalName: "path"},
	{NamespaceURI: model.NSJCR, LocalName: "baseVersion"},
	{NamespaceURI: model.NSJCR, LocalName: "predecessors"},
	{NamespaceURI: model.NSJCR, LocalName: "successors"},
	{NamespaceURI: model.NSJCR, LocalName: "versionHistory"},
	{NamespaceURI: model.NSJCR, LocalName: "isCheckedOut"},
	{NamespaceURI: model.NSJCR, LocalName: "frozenPrimaryType"},
	{NamespaceURI: model.NSJCR, LocalName: "frozenMixinTypes"},
	{NamespaceURI: model.NSJCR, LocalName: "frozenUuid"},
	{NamespaceURI: model.NSJCR, LocalName: "childVersionHistory"},
	{NamespaceURI: model.NSJCR, LocalName: "rootVersion"},
	{NamespaceURI: model.NSJCR, LocalName: "versionableUuid"},
	{NamespaceURI: model.NSJCR, LocalName: "copiedFrom"},
	{NamespaceURI: model.NSJCR, LocalName: "activity"},
	{NamespaceURI: model.NSJCR, LocalName: "configuration"},
	{NamespaceURI: model.NSJCR, LocalName: "lockOwner"},
	{NamespaceURI: model.NSJCR, LocalName: "lockIsDeep"},
	{NamespaceURI: model.NSJCR, LocalName: "supertypes"},
	{NamespaceURI: model.NSJCR, LocalName: "protected"},
	{NamespaceURI: model.NSJCR, LocalName: "multiple"},
	{NamespaceURI: model.NSJCR, LocalName: "requiredType"},
	{NamespaceURI: model.NSJCR, LocalName: "autoCreated"},
	{NamespaceURI: model.NSJCR, LocalName: "mandatory"},
	{NamespaceURI: model.NSJCR, LocalName: "onParentVersion"},
	{NamespaceURI: model.NSJCR, LocalName: "sameNameSiblings"},
	{NamespaceURI: model.NSJCR, LocalName: "system"},
	{NamespaceURI: model.NSJCR, LocalName: "nodeTypes"},
	{NamespaceURI: model.NSJCR, LocalName: "versionStorage"},
	{NamespaceURI: model.NSJCR, LocalName: "value"},
	{NamespaceURI: model.NSJCR, LocalName: "values"},
	{NamespaceURI: model.NSJCR, LocalName: "propertyDefinition"},
	{NamespaceURI: model.NSJCR, LocalName: "childNodeDefinition"},
	{NamespaceURI: model.NSJCR, LocalName: "isMixin"},
	{NamespaceURI: model.NSJCR, LocalName: "hasOrderableChildNodes"},
	{NamespaceURI: model.NSJCR, LocalName: "nodeTypeName"},

	{NamespaceURI: model.NSNT, LocalName: "base"},
	{NamespaceURI: model.NSNT, LocalName: "unstructured"},
	{NamespaceURI: model.NSNT, LocalName: "folder"},
	{NamespaceURI: model.NSNT, LocalName: "file"},
	{NamespaceURI: model.NSNT, LocalName: "resource"},
	{NamespaceURI: model.NSNT, LocalName: "linkedFile"},
	{NamespaceURI: model.NSNT, LocalName: "hierarchyNode"},
	{NamespaceURI: model.NSNT, LocalName: "frozenNode"},
	{NamespaceURI: model.NSNT, LocalName: "version"},
	{NamespaceURI: model.NSNT, LocalName: "versionHistory"},
	{NamespaceURI: model.NSNT, LocalName: "versionLabels"},
	{NamespaceURI: model.NSNT, LocalName: "versionedChild"},
	{NamespaceURI: model.NSNT, LocalName: "query"},
	{NamespaceURI: model.NSNT, LocalName: "address"},
	{NamespaceURI: model.NSNT, LocalName: "propertyDefinition"},
	{NamespaceURI: model.NSNT, LocalName: "childNodeDefinition"},
	{NamespaceURI: model.NSNT, LocalName: "nodeType"},
	{NamespaceURI: model.NSNT, LocalName: "activity"},
	{NamespaceURI: model.NSNT, LocalName: "configuration"},
	{NamespaceURI: model.NSNT, LocalName: "share"},

	{NamespaceURI: model.NSMix, LocalName: "referenceable"},
	{NamespaceURI: model.NSMix, LocalName: "versionable"},
	{NamespaceURI: model.NSMix, LocalName: "lockable"},
	{NamespaceURI: model.NSMix, LocalName: "lifecycle"},
	{NamespaceURI: model.NSMix, LocalName: "shareable"},
	{NamespaceURI: model.NSMix, LocalName: "created"},
	{NamespaceURI: model.NSMix, LocalName: "lastModified"},
	{NamespaceURI: model.NSMix, LocalName: "title"},
	{NamespaceURI: model.NSMix, LocalName: "language"},
	{NamespaceURI: model.NSMix, LocalName: "mimeType"},
	{NamespaceURI: model.NSMix, LocalName: "etag"},
	{NamespaceURI: model.NSMix, LocalName: "simpleVersionable"},
	{NamespaceURI: model.NSMix, LocalName: "atomicCounter"},

	{NamespaceURI: model.NSRep, LocalName: "root"},
	{NamespaceURI: model.NSRep, LocalName: "system"},
	{NamespaceURI: model.NSRep, LocalName: "policy"},
	{NamespaceURI: model.NSRep, LocalName: "versionStorage"},
	{NamespaceURI: model.NSRep, LocalName: "nodeTypes"},
	{NamespaceURI: model.NSRep, LocalName: "namespaces"},
	{NamespaceURI: model.NSRep, LocalName: "privileges"},
	{NamespaceURI: model.NSRep, LocalName: "authorizable"},
	{NamespaceURI: model.NSRep, LocalName: "members"},
	{NamespaceURI: model.NSRep, LocalName: "principalName"},
	{NamespaceURI: model.NSRep, LocalName: "authorizableId"},
	{NamespaceURI: model.NSRep, LocalName: "password"},
	{NamespaceURI: model.NSRep, LocalName: "disabled"},
	{NamespaceURI: model.NSRep, LocalName: "group"},
	{NamespaceURI: model.NSRep, LocalName: "user"},
	{NamespaceURI: model.NSRep, LocalName: "accessControl"},
	{NamespaceURI: model.NSRep, LocalName: "grantACE"},
	{NamespaceURI: model.NSRep, LocalName: "denyACE"},
	{NamespaceURI: model.NSRep, LocalName: "glob"},

	{NamespaceURI: model.NSSV, LocalName: "name"},
	{NamespaceURI: model.NSSV, LocalName: "node"},
	{NamespaceURI: model.NSSV, LocalName: "property"},
	{NamespaceURI: model.NSSV, LocalName: "value"},
	{NamespaceURI: model.NSSV, LocalName: "type"},
	{NamespaceURI: model.NSSV, LocalName: "multiple"},
	{NamespaceURI: model.NSSV, LocalName: "uuid"},
	{NamespaceURI: model.NSSV, LocalName: "primaryType"},
	{NamespaceURI: model.NSSV, LocalName: "mixinTypes"},

	{NamespaceURI: model.NSXSI, LocalName: "type"},
	{NamespaceURI: model.NSXSI, LocalName: "schemaLocation"},
	{NamespaceURI: model.NSXSI, LocalName: "nil"},

	{NamespaceURI: model.NSEmpty, LocalName: "name"},
	{NamespaceURI: model.NSEmpty, LocalName: "title"},
	{NamespaceURI: model.NSEmpty, LocalName: "description"},
	{NamespaceURI: model.NSEmpty, LocalName: "value"},
	{NamespaceURI: model.NSEmpty, LocalName: "type"},
	{NamespaceURI: model.NSEmpty, LocalName: "id"},
	{NamespaceURI: model.NSEmpty, LocalName: "path"},
	{NamespaceURI: model.NSEmpty, LocalName: "order"},
	{NamespaceURI: model.NSEmpty, LocalName: "status"},
	{NamespaceURI: model.NSEmpty, LocalName: "enabled"},
	{NamespaceURI: model.NSEmpty, LocalName: "count"},
	{NamespaceURI: model.NSEmpty, LocalName: "size"},
	{NamespaceURI: model.NSEmpty, LocalName: "checksum"},
	{NamespaceURI: model.NSEmpty, LocalName: "owner"},
}

var (
	nameToIndex      = make(map[model.Name]int, len(CommonNames))
	namespaceToIndex = make(map[string]int, len(CommonNamespaces))
)

func init() {
	for i, n := range CommonNames {
		nameToIndex[n] = i
	}
	for i, ns := range CommonNamespaces {
		namespaceToIndex[ns] = i
	}
}

// nameIndex returns the 0..127 common-name slot for name, or -1 if it is
// not in the frozen table.
func nameIndex(name model.Name) int {
	if i, ok := nameToIndex[name]; ok {
		return i
	}

	return -1
}

// namespaceIndex returns the 0..6 common-namespace slot for uri, or 7 if
// uri is not in the frozen table.
func namespaceIndex(uri string) int {
	if i, ok := namespaceToIndex[uri]; ok {
		return i
	}

	return 7
}
