package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"
)

// SchemaDoc documents every property of [Config] with its validation rules.
type SchemaDoc struct {
	Name       string        `json:"name"`
	Properties []PropertyDoc `json:"properties"`
}

// PropertyDoc documents a single configuration property.
type PropertyDoc struct {
	govy.PropertyPlan
	ChildrenPaths []string `json:"childrenPaths,omitempty"`
}

// Schema combines the structure of [Config] with the validation plan of its validator.
func Schema() (SchemaDoc, error) {
	mapper := &propertyMapper{}
	mapper.Map(reflect.TypeOf(Config{}), "$")
	doc := SchemaDoc{Properties: mapper.Properties}
	for i, property := range doc.Properties {
		doc.Properties[i].ChildrenPaths = childrenPaths(property.Path, doc.Properties)
	}

	plan, err := govy.Plan(validator)
	if err != nil {
		return SchemaDoc{}, errors.Wrap(err, "failed to generate validation plan for config")
	}
	doc.Name = plan.Name
	for _, propPlan := range plan.Properties {
		for i, property := range doc.Properties {
			if propPlan.Path != property.Path {
				continue
			}
			doc.Properties[i] = PropertyDoc{
				PropertyPlan:  *propPlan,
				ChildrenPaths: property.ChildrenPaths,
			}
			break
		}
	}
	return doc, nil
}

// propertyMapper flattens a type into properties addressed by their YAML paths.
type propertyMapper struct {
	Properties []PropertyDoc
}

func (m *propertyMapper) Map(typ reflect.Type, path string) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	doc := PropertyDoc{}
	doc.Path = path
	doc.TypeInfo = typeInfo(typ)
	m.Properties = append(m.Properties, doc)

	switch typ.Kind() {
	case reflect.Struct:
		for _, field := range reflect.VisibleFields(typ) {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				continue
			}
			m.Map(field.Type, path+"."+name)
		}
	case reflect.Slice:
		m.Map(typ.Elem(), path+"[*]")
	case reflect.Map:
		m.Map(typ.Key(), path+".~")
		m.Map(typ.Elem(), path+".*")
	default:
	}
}

func childrenPaths(parent string, properties []PropertyDoc) []string {
	var paths []string
	for _, property := range properties {
		rel, found := strings.CutPrefix(property.Path, parent+".")
		if !found || strings.Contains(rel, ".") {
			continue
		}
		paths = append(paths, property.Path)
	}
	return paths
}

// typeInfo describes typ, named types keep their package separately.
func typeInfo(typ reflect.Type) govy.TypeInfo {
	info := govy.TypeInfo{Kind: kindString(typ)}
	if typ.PkgPath() == "" && typ.Kind() == reflect.Slice {
		info.Name = "[]"
		typ = typ.Elem()
	}
	if typ.PkgPath() == "" {
		info.Name += typ.String()
	} else {
		info.Name += typ.Name()
		info.Package = typ.PkgPath()
	}
	return info
}

func kindString(typ reflect.Type) string {
	switch typ.Kind() {
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", kindString(typ.Key()), kindString(typ.Elem()))
	case reflect.Slice:
		return fmt.Sprintf("[]%s", kindString(typ.Elem()))
	default:
		return typ.Kind().String()
	}
}
