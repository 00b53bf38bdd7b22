package xmlview

type RenderOption func(*RenderState)

// Indent sets the number of spaces per nesting level.
func Indent(n int) RenderOption {
	return func(rs *RenderState) { rs.indent = n }
}

func RenderComments(v bool) RenderOption {
	return func(rs *RenderState) { rs.comments = v }
}

func RenderColors(c *Colors) RenderOption {
	return func(rs *RenderState) { rs.Color = c.Color }
}
