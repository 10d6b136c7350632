package patch

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/wren/internal/fields"
)

const enumHeader = "#[derive(Subcommand, Clone, Serialize, Deserialize, Debug)]\npub enum Transaction {"

// renderVariant renders the new enum case followed by the Noop fallback.
//
//	    Transfer {
//	        amount: u64,
//	        to: String
//	    },
//	    Noop
func renderVariant(name string, list fields.List) string {
	if list.IsEmpty() {
		return fmt.Sprintf("    %s,\n    Noop", name)
	}

	decls := make([]string, len(list))
	for i, f := range list {
		decls[i] = fmt.Sprintf("        %s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("    %s {\n%s\n    },\n    Noop", name, strings.Join(decls, ",\n"))
}

func renderEnum(name string, list fields.List) string {
	return enumHeader + "\n" + renderVariant(name, list) + "\n}"
}

// armPattern renders the left side of a match arm: qualifier::Name with a
// destructuring pattern, or the bare path for a unit variant.
func armPattern(qualifier, name string, list fields.List) string {
	if list.IsEmpty() {
		return qualifier + "::" + name
	}
	return fmt.Sprintf("%s::%s { %s }", qualifier, name, list.Pattern())
}

// renderVerify renders verify with a block arm for the new variant, unit or not.
func renderVerify(name string, list fields.List) string {
	var b strings.Builder
	b.WriteString("    pub fn verify(&self) -> Result<()> {\n")
	b.WriteString("        match self {\n")
	b.WriteString("            " + armPattern("Self", name, list) + " => {\n")
	b.WriteString("                // TODO: Add verification logic here\n")
	b.WriteString("                Ok(())\n")
	b.WriteString("            },\n")
	b.WriteString("            Self::Noop => Ok(()),\n")
	b.WriteString("        }\n")
	b.WriteString("    }")
	return b.String()
}

// renderDispatch renders the match used by both validate_tx and process_tx.
func renderDispatch(name string, list fields.List) string {
	var b strings.Builder
	b.WriteString("        match tx {\n")
	b.WriteString("            " + armPattern("Transaction", name, list) + " => Ok(()),\n")
	b.WriteString("            Transaction::Noop => Ok(()),\n")
	b.WriteString("        }")
	return b.String()
}

func hasVariant(name string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, "\n    "+name+" {\n") || strings.Contains(text, "\n    "+name+",\n")
	}
}

// containsArm matches a path followed by a pattern or an arrow, so that
// Transaction::Transfer does not match Transaction::TransferAll.
func containsArm(path string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, path+" {") || strings.Contains(text, path+" =>")
	}
}
