package types

var defaultTypes = []FileTypeDef{
	{Name: "asm", Globs: []string{"*.asm", "*.s", "*.S"}},
	{Name: "c", Globs: []string{"*.[chH]", "*.[chH].in", "*.cats"}},
	{Name: "cmake", Globs: []string{"*.cmake", "CMakeLists.txt"}},
	{Name: "cpp", Globs: []string{"*.[ChH]", "*.cc", "*.[ch]pp", "*.[ch]xx", "*.hh", "*.inl"}},
	{Name: "cs", Globs: []string{"*.cs"}},
	{Name: "css", Globs: []string{"*.css", "*.scss", "*.sass", "*.less"}},
	{Name: "csv", Globs: []string{"*.csv"}},
	{Name: "docker", Globs: []string{"*Dockerfile*"}},
	{Name: "go", Globs: []string{"*.go"}},
	{Name: "gomod", Globs: []string{"go.mod", "go.sum", "go.work"}},
	{Name: "html", Globs: []string{"*.htm", "*.html", "*.ejs"}},
	{Name: "java", Globs: []string{"*.java", "*.jsp", "*.jspx", "*.properties"}},
	{Name: "js", Globs: []string{"*.js", "*.jsx", "*.vue", "*.cjs", "*.mjs"}},
	{Name: "json", Globs: []string{"*.json", "composer.lock", "*.sarif"}},
	{Name: "kotlin", Globs: []string{"*.kt", "*.kts"}},
	{Name: "lua", Globs: []string{"*.lua"}},
	{Name: "make", Globs: []string{"[Gg][Nn][Uu]makefile", "[Mm]akefile", "*.mk", "*.mak"}},
	{Name: "markdown", Globs: []string{"*.markdown", "*.md", "*.mdown", "*.mdwn", "*.mkd", "*.mkdn", "*.mdx"}},
	{Name: "md", Globs: []string{"*.markdown", "*.md", "*.mdown", "*.mdwn", "*.mkd", "*.mkdn", "*.mdx"}},
	{Name: "php", Globs: []string{"*.php", "*.php3", "*.php4", "*.php5", "*.phtml"}},
	{Name: "proto", Globs: []string{"*.proto"}},
	{Name: "py", Globs: []string{"*.py", "*.pyi"}},
	{Name: "python", Globs: []string{"*.py", "*.pyi"}},
	{Name: "ruby", Globs: []string{"Gemfile", "*.gemspec", ".irbrc", "Rakefile", "*.rb"}},
	{Name: "rust", Globs: []string{"*.rs"}},
	{Name: "sh", Globs: []string{"*.bash", "*.sh", "*.zsh", ".bashrc", ".bash_profile", ".zshrc", ".profile"}},
	{Name: "sql", Globs: []string{"*.sql", "*.psql"}},
	{Name: "svelte", Globs: []string{"*.svelte"}},
	{Name: "swift", Globs: []string{"*.swift"}},
	{Name: "tf", Globs: []string{"*.tf", "*.tfvars", "*.tf.json", "*.hcl"}},
	{Name: "toml", Globs: []string{"*.toml", "Cargo.lock"}},
	{Name: "ts", Globs: []string{"*.ts", "*.tsx", "*.cts", "*.mts"}},
	{Name: "txt", Globs: []string{"*.txt"}},
	{Name: "xml", Globs: []string{"*.xml", "*.xml.dist", "*.xsd", "*.xsl", "*.xslt", "*.svg"}},
	{Name: "yaml", Globs: []string{"*.yaml", "*.yml"}},
	{Name: "zig", Globs: []string{"*.zig"}},
}
