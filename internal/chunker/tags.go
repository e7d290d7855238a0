package chunker

import (
	"path"
	"strings"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// codeExtensions are the extensions classified as code when no higher
// priority rule matches.
var codeExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".py": true, ".go": true, ".java": true, ".rb": true, ".rs": true, ".php": true,
	".cs": true, ".swift": true, ".kt": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true,
	".sh": true, ".sql": true,
}

type pathFlags struct {
	isConfig      bool
	isPackageJSON bool
	isReadme      bool
	isEnvExample  bool
	isCIConfig    bool
}

// classifyPath derives the semantic tags for a file from its relative
// path alone. Tagging is path-based, not content-based.
func classifyPath(relPath string) (types.FileType, pathFlags) {
	lower := strings.ToLower(strings.ReplaceAll(relPath, "\\", "/"))
	base := path.Base(lower)
	ext := path.Ext(lower)

	flags := pathFlags{
		isReadme:      strings.HasPrefix(base, "readme"),
		isPackageJSON: base == "package.json",
		isEnvExample:  base == ".env.example",
		isCIConfig: strings.HasPrefix(lower, ".github/workflows/") ||
			strings.HasPrefix(base, ".gitlab-ci") ||
			base == "docker-compose.yml",
	}

	var fileType types.FileType
	switch {
	case ext == ".md" || ext == ".mdx" || flags.isReadme:
		fileType = types.FileTypeDocs
	case ext == ".json" || ext == ".yml" || ext == ".yaml" || strings.Contains(lower, "config"):
		fileType = types.FileTypeConfig
	case strings.Contains(lower, "test") || strings.Contains(lower, ".spec."):
		fileType = types.FileTypeTest
	case codeExtensions[ext]:
		fileType = types.FileTypeCode
	default:
		fileType = types.FileTypeOther
	}

	flags.isConfig = fileType == types.FileTypeConfig ||
		flags.isPackageJSON || flags.isEnvExample || flags.isCIConfig

	return fileType, flags
}
