package parse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/rfcemail/internal/parse"
	"github.com/optimode/rfcemail/types"
)

func TestParse_Valid(t *testing.T) {
	tests := []string{
		"â@iana.org",
		"fabien@symfony.com",
		"example@example.co.uk",
		"fabien_potencier@example.fr",
		"example@localhost",
		"fab'ien@symfony.com",
		`fab\ ien@symfony.com`,
		"example((example))@fakedfake.co.uk",
		"example@faked(fake).co.uk",
		"fabien+@symfony.com",
		"инфо@письмо.рф",
		`"username"@example.com`,
		`"user,name"@example.com`,
		`"user name"@example.com`,
		`"user@name"@example.com`,
		`"\a"@iana.org`,
		`"test\ test"@iana.org`,
		`""@iana.org`,
		`"\""@iana.org`,
		"müller@möller.de",
		"test@email*",
		"test@email!",
		"test@email&",
		"test@email^",
		"test@email%",
		"test@email$",
		"\r\n test@iana.org",
	}
	for _, raw := range tests {
		res := parse.Parse(raw, true)
		assert.True(t, res.Valid(), "expected valid for %q, got %v", raw, res.Err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"test@example.com test",
		"user  name@example.com",
		"user   name@example.com",
		"example.@example.co.uk",
		"example@example@example.co.uk",
		"(test_exampel@example.fr)",
		"example(example)example@example.co.uk",
		".example@localhost",
		`ex\ample@localhost`,
		`example@local\host`,
		"example@localhost.",
		"user name@example.com",
		"username@ example . com",
		"example@(fake).com",
		"example@(fake.com",
		"username@example,com",
		"usern,ame@example.com",
		"user[na]me@example.com",
		`"""@iana.org`,
		`"\"@iana.org`,
		`"test"test@iana.org`,
		`"test""test"@iana.org`,
		`"test"."test"@iana.org`,
		`"test".test@iana.org`,
		"\"test\"\x00@iana.org",
		`"test\"@iana.org`,
		"\xe2@iana.org",
		"test@\xe2.org",
		`\r\ntest@iana.org`,
		`\r\n test@iana.org`,
		`\r\n \r\ntest@iana.org`,
		`\r\n \r\n test@iana.org`,
		`test@iana.org \r\n`,
		`test@iana.org \r\n `,
		`test@iana.org \r\n \r\n`,
		`test@iana.org \r\n\r\n`,
		`test@iana.org  \r\n\r\n `,
		"\r\ntest@iana.org",
		"\r\n \r\ntest@iana.org",
		"test@iana.org \r\n",
		"test@iana.org \r\n \r\n",
		"test@iana.org \r\n\r\n",
		"test@iana/icann.org",
		"test@foo;bar.com",
		"test;123@foobar.com",
		"test@example..com",
		`email.email@email."`,
		"test@email>",
		"test@email<",
		"test@email{",
		"\x80\x81\x82@\x83\x84\x85.\x86\x87\x88",
		"",
	}
	for _, raw := range tests {
		res := parse.Parse(raw, true)
		assert.False(t, res.Valid(), "expected invalid for %q", raw)
	}
}

func TestParse_ErrorCodes(t *testing.T) {
	tests := []struct {
		email  string
		code   types.ErrorCode
		offset int
	}{
		{"@example.co.uk", types.NoLocalPart, 0},
		{"example@", types.NoDomainPart, 8},
		{"example", types.NoDomainPart, 7},
		{"example@example-.co.uk", types.DomainHyphened, 15},
		{"example@example-", types.DomainHyphened, 15},
		{"example@-example.co.uk", types.DomainHyphened, 8},
		{"example@@example.co.uk", types.ConsecutiveAt, 8},
		{"example..example@example.co.uk", types.ConsecutiveDot, 8},
		{"example@example..co.uk", types.ConsecutiveDot, 16},
		{"<fabien_potencier>@example.fr", types.ExpectingATEXT, 0},
		{".example@localhost", types.DotAtStart, 0},
		{"example@.localhost", types.DotAtStart, 8},
		{"example@localhost.", types.DotAtEnd, 18},
		{"example.@example.co.uk", types.DotAtEnd, 8},
		{"(example@localhost", types.UnclosedComment, 18},
		{`"example@localhost`, types.UnclosedQuotedString, 18},
		{`exa"mple@localhost`, types.ExpectingATEXT, 3},
		{"comment)example@localhost", types.UnopenedComment, 7},
		{"example(comment))@localhost", types.UnopenedComment, 16},
		{"example@comment)localhost", types.UnopenedComment, 15},
		{"example@localhost(comment))", types.UnopenedComment, 26},
		{"example@(comment))example.com", types.UnopenedComment, 17},
		{"exampl\ne@example.co.uk", types.AtextAfterCFWS, 7},
		{"exampl\te@example.co.uk", types.AtextAfterCFWS, 7},
		{"test. example@iana.org", types.AtextAfterCFWS, 6},
		{"example@[[]", types.ExpectingDTEXT, 9},
		{"example@[]", types.ExpectingDTEXT, 9},
		{"example@[127.0.0.1", types.ExpectingDTEXT, 18},
		{"example@[127.0.0.1]x", types.ExpectingATEXT, 19},
		{"example@localhost[127.0.0.1]", types.ExpectingATEXT, 17},
		{"example@exa\rmple.co.uk", types.CRNoLF, 11},
		{"example@[\r]", types.CRNoLF, 9},
		{"exam\rple@example.co.uk", types.CRNoLF, 4},
		{"ex\\\rample@example.co.uk", types.CRNoLF, 3},
		{"example@iana.org \r\n", types.CRLFAtEnd, 17},
		{"example@iana.org \r\n\r\n", types.CRLFX2, 19},
		{"\r\ntest@iana.org", types.AtextAfterCFWS, 2},
		{"a(\r\nb)@x", types.AtextAfterCFWS, 4},
		{"a(x\r\n\r\n)@x", types.CRLFX2, 5},
		{"a(\r\n", types.CRLFAtEnd, 2},
		{"a@[1.2.3.4\r\n]", types.AtextAfterCFWS, 12},
		{"a@[1.2.3.4\r\n\r\n ]", types.CRLFX2, 12},
		{"\xe2@iana.org", types.ExpectingATEXT, 0},
		{"example@[\xe2]", types.ExpectingDTEXT, 9},
	}
	for _, tt := range tests {
		res := parse.Parse(tt.email, true)
		require.NotNil(t, res.Err, "expected error for %q", tt.email)
		assert.Equal(t, tt.code, res.Err.Code, "code for %q", tt.email)
		assert.Equal(t, tt.offset, res.Err.Offset, "offset for %q", tt.email)
	}
}

func TestParse_Warnings(t *testing.T) {
	tests := []struct {
		email string
		warns []types.WarningCode
	}{
		{"example @example.co.uk", []types.WarningCode{types.CFWSNearAt}},
		{"example@ example.co.uk", []types.WarningCode{types.CFWSNearAt}},
		{"example@example(examplecomment).co.uk", []types.WarningCode{types.Comment}},
		{"example(examplecomment)@example.co.uk", []types.WarningCode{types.Comment, types.CFWSNearAt}},
		{"example((example))@fakedfake.co.uk", []types.WarningCode{types.Comment, types.CFWSNearAt}},
		{"\"\t\"@example.co.uk", []types.WarningCode{types.QuotedString, types.CFWSWithFWS}},
		{"\"\r\"@example.co.uk", []types.WarningCode{types.QuotedString, types.CFWSWithFWS}},
		{"\"\t\r\n\"@example.co.uk", []types.WarningCode{types.QuotedString, types.CFWSWithFWS}},
		{`"test"@test`, []types.WarningCode{types.QuotedString}},
		{`fab\ ien@symfony.com`, []types.WarningCode{types.QuotedPart}},
		{"test .example@iana.org", []types.WarningCode{types.CFWSWithFWS}},
		{"example@[127.0.0.1]", []types.WarningCode{types.AddressLiteral}},
		{
			"example@[IPv6:2001:0db8:85a3:0000:0000:8a2e:0370:7334]",
			[]types.WarningCode{types.AddressLiteral},
		},
		{
			"example@[IPv6:2001:0db8:85a3:0000:0000:8a2e:0370::]",
			[]types.WarningCode{types.AddressLiteral, types.IPV6Deprecated},
		},
		{
			"example@[IPv6:2001:0db8:85a3:0000:0000:8a2e:0370:7334::]",
			[]types.WarningCode{types.AddressLiteral, types.IPV6MaxGroups},
		},
		{"example@[IPv6:1::1::1]", []types.WarningCode{types.AddressLiteral, types.IPV6DoubleColon}},
		{"example@[localhost]", []types.WarningCode{types.AddressLiteral, types.DomainLiteral}},
		{
			"example@[IPv6:z001:0db8:85a3:0000:0000:8a2e:0370:7334]",
			[]types.WarningCode{types.AddressLiteral, types.IPV6BadChar},
		},
		{
			"example@[IPv6:2001:0db8:85a3:0000:0000:8a2e:0370:]",
			[]types.WarningCode{types.AddressLiteral, types.IPV6ColonEnd},
		},
		{
			"example@[IPv6::2001:0db8:85a3:0000:0000:8a2e:0370:7334]",
			[]types.WarningCode{types.AddressLiteral, types.IPV6ColonStart, types.IPV6GroupCount},
		},
		{"example@[127.0.0.1] ", []types.WarningCode{types.AddressLiteral, types.CFWSWithFWS}},
		{"fabien@symfony.com", nil},
	}
	for _, tt := range tests {
		res := parse.Parse(tt.email, true)
		require.Nil(t, res.Err, "unexpected error for %q", tt.email)
		assert.Equal(t, tt.warns, res.Warnings, "warnings for %q", tt.email)
	}
}

func TestParse_EmptyLiteralBodyAfterFolding(t *testing.T) {
	res := parse.Parse("example@[ \t]", true)
	require.NotNil(t, res.Err)
	assert.Equal(t, types.ExpectingDTEXT, res.Err.Code)
	assert.Equal(t, 11, res.Err.Offset)
}

func TestParse_FoldingInsideCommentsAndLiterals(t *testing.T) {
	res := parse.Parse("a(\r\n b)@x", true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.Comment, types.CFWSNearAt}, res.Warnings)

	res = parse.Parse("a@[1.2.3.4\r\n ]", true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.AddressLiteral, types.CFWSWithFWS}, res.Warnings)
}

func TestParse_BareLFInLiteral(t *testing.T) {
	res := parse.Parse("example@[\n]", true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.AddressLiteral, types.ObsoleteDTEXT, types.DomainLiteral}, res.Warnings)
}

func TestParse_LengthWarnings(t *testing.T) {
	label := strings.Repeat("toolonglocalpart", 4)

	res := parse.Parse("too_long_localpart_too_long_localpart_too_long_localpart_too_long_localpart@example.co.uk", true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.LocalTooLong}, res.Warnings)

	res = parse.Parse("example@"+label+".co.uk", true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.LabelTooLong}, res.Warnings)

	res = parse.Parse("example@"+label, true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.LabelTooLong}, res.Warnings)

	long := strings.TrimSuffix(strings.Repeat("toolonglocalpart.", 16), ".")
	res = parse.Parse("example@"+long, true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.DomainTooLong, types.EmailTooLong}, res.Warnings)

	local := strings.Repeat("a", 64)
	domain := strings.Repeat("b", 63) + "." + strings.Repeat("c", 63) + "." + strings.Repeat("d", 62)
	res = parse.Parse(local+"@"+domain, true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.EmailTooLong}, res.Warnings)
}

func TestParse_ASCIIOnly(t *testing.T) {
	for _, raw := range []string{"â@iana.org", "müller@möller.de", "инфо@письмо.рф", `"ü"@iana.org`, "a(ü)@iana.org"} {
		res := parse.Parse(raw, false)
		require.NotNil(t, res.Err, "expected error for %q", raw)
		assert.Equal(t, types.ExpectingATEXT, res.Err.Code, "code for %q", raw)
	}

	for _, raw := range []string{"example@[ü]", `example@[\ü]`} {
		res := parse.Parse(raw, false)
		require.NotNil(t, res.Err, "expected error for %q", raw)
		assert.Equal(t, types.ExpectingDTEXT, res.Err.Code, "code for %q", raw)
	}

	res := parse.Parse(`"\ü"@iana.org`, false)
	require.NotNil(t, res.Err)
	assert.Equal(t, types.ExpectingATEXT, res.Err.Code)

	res = parse.Parse("fabien@symfony.com", false)
	assert.True(t, res.Valid())
}

func TestParse_Parts(t *testing.T) {
	tests := []struct {
		email   string
		local   string
		domain  string
		literal bool
	}{
		{"fabien@symfony.com", "fabien", "symfony.com", false},
		{"example(comment)@example.co.uk", "example", "example.co.uk", false},
		{"example @ example.co.uk", "example", "example.co.uk", false},
		{`"user name"@example.com`, `"user name"`, "example.com", false},
		{`"\""@iana.org`, `"\""`, "iana.org", false},
		{`fab\ ien@symfony.com`, `fab\ ien`, "symfony.com", false},
		{"example@[127.0.0.1]", "example", "[127.0.0.1]", true},
		{"example@[IPv6:1::1]", "example", "[IPv6:1::1]", true},
		{"инфо@письмо.рф", "инфо", "письмо.рф", false},
	}
	for _, tt := range tests {
		res := parse.Parse(tt.email, true)
		require.Nil(t, res.Err, "unexpected error for %q", tt.email)
		assert.Equal(t, tt.email, res.Raw)
		assert.Equal(t, tt.local, res.Address.LocalPart, "local part of %q", tt.email)
		assert.Equal(t, tt.domain, res.Address.DomainPart, "domain part of %q", tt.email)
		assert.Equal(t, tt.literal, res.Address.Literal, "literal flag of %q", tt.email)
	}
}

func TestParse_FailedHasNoAddress(t *testing.T) {
	res := parse.Parse("example@@iana.org", true)
	require.NotNil(t, res.Err)
	assert.Equal(t, types.Address{}, res.Address)
	assert.Empty(t, res.Warnings)
}

func TestParse_CommentDepth(t *testing.T) {
	ok := strings.Repeat("(", parse.MaxCommentDepth) + strings.Repeat(")", parse.MaxCommentDepth) + "a@iana.org"
	res := parse.Parse(ok, true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.Comment}, res.Warnings)

	deep := strings.Repeat("(", parse.MaxCommentDepth+1) + "a@iana.org"
	res = parse.Parse(deep, true)
	require.NotNil(t, res.Err)
	assert.Equal(t, types.CommentTooDeep, res.Err.Code)
	assert.Equal(t, parse.MaxCommentDepth, res.Err.Offset)
}

func TestParse_CommentEscapes(t *testing.T) {
	res := parse.Parse(`a(\))@iana.org`, true)
	require.Nil(t, res.Err)
	assert.Equal(t, []types.WarningCode{types.Comment, types.CFWSNearAt}, res.Warnings)

	res = parse.Parse(`a(\(@iana.org`, true)
	require.NotNil(t, res.Err)
	assert.Equal(t, types.UnclosedComment, res.Err.Code)
}

func TestParse_Idempotent(t *testing.T) {
	for _, raw := range []string{"fabien@symfony.com", "example(examplecomment)@example.co.uk", "example@@iana.org"} {
		first := parse.Parse(raw, true)
		second := parse.Parse(raw, true)
		assert.Equal(t, first, second, "results differ for %q", raw)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, raw := range []string{"fabien@symfony.com", "example@localhost", "müller@möller.de", "test@email$"} {
		res := parse.Parse(raw, true)
		require.Nil(t, res.Err)
		require.Empty(t, res.Warnings)

		again := parse.Parse(res.Address.String(), true)
		require.Nil(t, again.Err)
		assert.Empty(t, again.Warnings)
		assert.Equal(t, res.Address, again.Address)
	}
}
