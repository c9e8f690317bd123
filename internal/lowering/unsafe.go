package lowering

// lowerUnsafe переписывает `@unsafe { ... }` в блок с маркерами
// CS_UNSAFE_BEGIN/CS_UNSAFE_END; прелюдия разворачивает их в pragma,
// глушащие строгие предупреждения hardline.
func lowerUnsafe(src []byte) []byte {
	mask := kindMask(src)
	buf := newEditBuf(src)

	for i := 0; i < len(src); i++ {
		if src[i] != '@' || !isCode(mask, i) {
			continue
		}
		const kw = "@unsafe"
		if i+len(kw) > len(src) || string(src[i:i+len(kw)]) != kw {
			continue
		}
		open := skipWS(src, mask, i+len(kw))
		if open >= len(src) || src[open] != '{' {
			continue
		}
		closeIdx := matchDelim(src, mask, open, '{', '}')
		if closeIdx < 0 {
			continue
		}
		buf.copyTo(i)
		buf.emit("{ CS_UNSAFE_BEGIN; ")
		buf.skipTo(open + 1)
		buf.copyTo(closeIdx)
		buf.emit(" CS_UNSAFE_END; }")
		buf.skipTo(closeIdx + 1)
		i = closeIdx
	}
	return buf.finish()
}
