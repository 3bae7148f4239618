package guard

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"golang.org/x/text/unicode/norm"
)

// hanTable 涵蓋漢字主要區段，skeleton 轉換時漢字必須原樣保留，
// 否則 confusables 會把正常中文改寫成別的字。
var hanTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4DBF, Stride: 1}, // CJK Extension A
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}, // CJK Unified Ideographs
		{Lo: 0xF900, Hi: 0xFAFF, Stride: 1}, // CJK Compatibility Ideographs
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1}, // CJK Extension B
	},
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// isBase64Char 檢查 Base64 字元集（含 URL-safe 變體）。
func isBase64Char(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '+' || c == '/' || c == '-' || c == '_'
}

// containsSuspiciousBase64 偵測輸入中夾帶的 Base64 文字 payload。
// 只抽出疑似 Base64 的片段解碼，且解碼結果必須是可讀文字才視為命中，
// 避免把一般英數序號誤判成注入。
func containsSuspiciousBase64(input string) bool {
	n := len(input)
	i := 0

	for i < n {
		if !isBase64Char(input[i]) {
			i++
			continue
		}

		start := i
		for i < n && isBase64Char(input[i]) {
			i++
		}

		padding := 0
		for i < n && input[i] == '=' && padding < 2 {
			i++
			padding++
		}

		if i-start < 20 {
			continue
		}

		decoded, err := tryDecodeBase64(input[start:i])
		if err != nil {
			continue
		}
		if isReadableText(decoded) {
			return true
		}
	}

	return false
}

// tryDecodeBase64 先把 URL-safe 字元換回標準字元並補齊 padding 再解碼。
func tryDecodeBase64(s string) ([]byte, error) {
	n := len(s)
	if n == 0 {
		return nil, fmt.Errorf("base64 decode: empty input")
	}

	padNeeded := (4 - n%4) % 4
	buf := make([]byte, n+padNeeded)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '-':
			buf[i] = '+'
		case '_':
			buf[i] = '/'
		default:
			buf[i] = s[i]
		}
	}
	for i := 0; i < padNeeded; i++ {
		buf[n+i] = '='
	}

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(buf)))
	written, err := base64.StdEncoding.Decode(decoded, buf)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return decoded[:written], nil
}

// isReadableText 判斷位元組序列是否為人類可讀文字。
// 非法 UTF-8 一律視為二進位資料；可列印字元需占九成以上。
func isReadableText(data []byte) bool {
	n := len(data)
	if n == 0 {
		return false
	}

	printable := 0
	total := 0
	i := 0
	for i < n {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		i += size
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}

	return total > 0 && printable*100 > total*90
}

// normalizeText 做比對前的文字正規化：
// NFC 消除分解形輸入，再對非漢字部分套 confusables skeleton + NFKC，
// 最後剝除控制字元。
func normalizeText(text string) string {
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}

	nfc := norm.NFC.String(text)
	return stripControlChars(normalizeWithHanPreserved(nfc))
}

// normalizeWithHanPreserved 保留漢字原樣，其餘字元做 skeleton 轉換。
func normalizeWithHanPreserved(text string) string {
	var result strings.Builder
	var nonHan strings.Builder
	result.Grow(len(text))

	flushNonHan := func() {
		if nonHan.Len() == 0 {
			return
		}
		skeleton := confusables.Skeleton(nonHan.String())
		result.WriteString(norm.NFKC.String(skeleton))
		nonHan.Reset()
	}

	for _, r := range text {
		if unicode.Is(hanTable, r) {
			flushNonHan()
			result.WriteRune(r)
		} else {
			nonHan.WriteRune(r)
		}
	}
	flushNonHan()

	return result.String()
}

func stripControlChars(text string) string {
	hasControl := false
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// containsEmoji 檢查輸入是否夾帶 emoji。陳情公文不會出現 emoji，
// 出現時多半是繞過關鍵字比對的嘗試。
func containsEmoji(text string) bool {
	return gomoji.ContainsEmoji(text)
}
