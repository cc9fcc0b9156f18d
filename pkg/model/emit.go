package model

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-shareforms/pkg/xmltext"
)

// EmitProperty renders a <property> element.
func EmitProperty(p Property) string {
	var b strings.Builder
	b.WriteString("         <property name=\"" + p.Name + "\">\n")
	if p.Title != "" {
		b.WriteString("           <title>" + p.Title + "</title>\n")
	}
	b.WriteString("           <type>" + p.Type + "</type>\n")
	if p.HasDefault {
		b.WriteString("           <default>" + p.Default + "</default>\n")
	}
	if len(p.AllowedValues) > 0 {
		b.WriteString("           <constraints>\n")
		b.WriteString("             <constraint type=\"LIST\">\n")
		b.WriteString("               <parameter name=\"allowedValues\"><list>\n")
		for _, v := range p.AllowedValues {
			b.WriteString("                 <value>" + v + "</value>\n")
		}
		b.WriteString("               </list></parameter>\n")
		b.WriteString("             </constraint>\n")
		b.WriteString("           </constraints>\n")
	}
	b.WriteString("         </property>\n")
	return b.String()
}

// EmitAssociation renders an <association> element.
func EmitAssociation(a Association) string {
	var b strings.Builder
	b.WriteString("         <association name=\"" + a.Name + "\">\n")
	if a.Title != "" {
		b.WriteString("           <title>" + a.Title + "</title>\n")
	}
	b.WriteString("           <source>\n")
	b.WriteString("             <mandatory>" + strconv.FormatBool(a.Descriptor.SourceMandatory) + "</mandatory>\n")
	b.WriteString("             <many>" + strconv.FormatBool(a.Descriptor.SourceMany) + "</many>\n")
	b.WriteString("           </source>\n")
	b.WriteString("           <target>\n")
	b.WriteString("             <class>" + a.Descriptor.TargetClass + "</class>\n")
	b.WriteString("             <mandatory>" + strconv.FormatBool(a.Descriptor.TargetMandatory) + "</mandatory>\n")
	b.WriteString("             <many>" + strconv.FormatBool(a.Descriptor.TargetMany) + "</many>\n")
	b.WriteString("           </target>\n")
	b.WriteString("         </association>\n")
	return b.String()
}

// EmitType renders a complete <type> block: header, every property, then the
// association batch when there is one. Name and Parent are escaped here;
// property and association fields arrive escaped from their constructors.
func EmitType(t TypeDef) string {
	var b strings.Builder
	b.WriteString("    <type name=\"" + xmltext.Escape(t.Name) + "\">\n")
	if t.Title != "" {
		b.WriteString("       <title>" + t.Title + "</title>\n")
	}
	b.WriteString("       <parent>" + xmltext.Escape(t.Parent) + "</parent>\n")
	b.WriteString("       <properties>\n")
	for _, p := range t.Properties {
		b.WriteString(EmitProperty(p))
	}
	b.WriteString("       </properties>\n")
	if len(t.Associations) > 0 {
		b.WriteString("       <associations>\n")
		for _, a := range t.Associations {
			b.WriteString(EmitAssociation(a))
		}
		b.WriteString("       </associations>\n")
	}
	b.WriteString("    </type>\n")
	return b.String()
}
