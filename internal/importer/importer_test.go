package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gravadigital/convite-api/internal/domain/rsvp"
)

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("Nome;Telefone"))
	assert.Equal(t, '\t', DetectDelimiter("Nome\tTelefone"))
	assert.Equal(t, ',', DetectDelimiter("Nome,Telefone"))
	assert.Equal(t, ',', DetectDelimiter("Nome"))
}

func TestDetectMappingPortugueseHeaders(t *testing.T) {
	m := DetectMapping([]string{"Nome Completo", "telefone", "qtd"}, inviteeFields)

	assert.Equal(t, Mapping{
		FieldName:       "Nome Completo",
		FieldPhone:      "telefone",
		FieldGuestLimit: "qtd",
	}, m)
}

func TestDetectMappingPrefersFullName(t *testing.T) {
	m := DetectMapping([]string{"Nome", "Nome Completo", "Grupo"}, inviteeFields)

	h, ok := m.Header(FieldName)
	require.True(t, ok)
	assert.Equal(t, "Nome Completo", h)
	assert.Equal(t, "Grupo", m[FieldCategory])
}

func TestDetectMappingSpecificColumnsFirst(t *testing.T) {
	m := DetectMapping([]string{"Nome do convidado", "Quantidade de convidados"}, inviteeFields)
	assert.Equal(t, "Quantidade de convidados", m[FieldGuestLimit])
	assert.Equal(t, "Nome do convidado", m[FieldName])

	r := DetectMapping([]string{"Nome", "Presença", "Nome do acompanhante", "Recado"}, rsvpFields)
	assert.Equal(t, "Nome", r[FieldName])
	assert.Equal(t, "Presença", r[FieldAttending])
	assert.Equal(t, "Nome do acompanhante", r[FieldGuests])
	assert.Equal(t, "Recado", r[FieldMessage])
}

func TestApplyOverride(t *testing.T) {
	headers := []string{"Nome", "Total", "Convites"}
	detected := DetectMapping(headers, inviteeFields)
	assert.Equal(t, "Total", detected[FieldGuestLimit])

	m, err := ApplyOverride(detected, headers, map[Field]string{FieldGuestLimit: "convites"})
	require.NoError(t, err)
	assert.Equal(t, "Convites", m[FieldGuestLimit])
	assert.Equal(t, "Total", detected[FieldGuestLimit], "detected mapping is not mutated")

	_, err = ApplyOverride(detected, headers, map[Field]string{FieldPhone: "Celular"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestParseOverride(t *testing.T) {
	o, err := ParseOverride([]string{"name=Convidado", "limit= Pessoas "})
	require.NoError(t, err)
	assert.Equal(t, map[Field]string{FieldName: "Convidado", FieldGuestLimit: "Pessoas"}, o)

	_, err = ParseOverride([]string{"name"})
	assert.Error(t, err)
	_, err = ParseOverride([]string{"age=Idade"})
	assert.Error(t, err)
}

func TestReadInviteesCSV(t *testing.T) {
	data := "\ufeffNome Completo;telefone;qtd;Categoria\n" +
		"Maria Eduarda Silva;11999999999;3 pessoas;Família\n" +
		";11888888888;2;Amigos\n" +
		"Ana Silva;;;\n"

	res, err := ReadInvitees("convidados.csv", strings.NewReader(data), Options{})
	require.NoError(t, err)

	require.Equal(t, 2, res.Imported())
	maria := res.Records[0]
	assert.Equal(t, "Maria Eduarda Silva", maria.FullName)
	assert.Equal(t, "11999999999", maria.PhoneNumber)
	assert.Equal(t, 3, maria.GuestLimit)
	assert.Equal(t, "Família", maria.Category)

	ana := res.Records[1]
	assert.Equal(t, 1, ana.GuestLimit)
	assert.Equal(t, "Geral", ana.Category)
	assert.NotEqual(t, maria.ID, ana.ID)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Line)
}

func TestReadInviteesWithOverride(t *testing.T) {
	data := "Convidado,Total,Convites\nAna Silva,120,2\n"

	res, err := ReadInvitees("lista.txt", strings.NewReader(data), Options{
		Override: map[Field]string{FieldGuestLimit: "Convites"},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 2, res.Records[0].GuestLimit)
}

func TestReadInviteesXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Nome", "Celular", "Limite"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Pedro Alves", "11977777777", 4}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Lia Souza", "", 1}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := ReadInvitees("Lista.XLSX", bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported())
	assert.Equal(t, "Pedro Alves", res.Records[0].FullName)
	assert.Equal(t, "11977777777", res.Records[0].PhoneNumber)
	assert.Equal(t, 4, res.Records[0].GuestLimit)
}

func TestReadRSVPsCSV(t *testing.T) {
	data := "Nome,Confirmado,Acompanhantes,Mensagem\n" +
		"Ana Silva,sim,\"Lucas, Bia\",Parabéns!\n" +
		"Pedro Alves,não,2,\n" +
		"Lia Souza,Sim,1,\n"

	res, err := ReadRSVPs("rsvps.csv", strings.NewReader(data), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	ana := res.Records[0]
	assert.True(t, ana.IsAttending)
	assert.Equal(t, 2, ana.NumberOfGuests)
	assert.Equal(t, "Lucas", ana.GuestNames[0].Name)
	assert.Equal(t, "Bia", ana.GuestNames[1].Name)
	assert.Equal(t, "Parabéns!", ana.Message)
	assert.Equal(t, rsvp.SourceImport, ana.Source)

	pedro := res.Records[1]
	assert.False(t, pedro.IsAttending)
	assert.Equal(t, 0, pedro.NumberOfGuests)
	assert.Empty(t, pedro.GuestNames)

	lia := res.Records[2]
	assert.Equal(t, 1, lia.NumberOfGuests)
	assert.Len(t, lia.GuestNames, 1)
}

func TestReadRSVPsBoundsCompanionCount(t *testing.T) {
	data := "Nome;Presença;Acompanhantes\n" +
		"Ana Souza;sim;99999999999999\n" +
		"Bruno Lima;sim;999999999999999999999999\n" +
		"Carla Dias;sim;51\n" +
		"Davi Rocha;sim;50\n"

	res, err := ReadRSVPs("rsvps.csv", strings.NewReader(data), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Davi Rocha", res.Records[0].FullName)
	assert.Equal(t, rsvp.CompanionLimit, res.Records[0].NumberOfGuests)
	assert.Equal(t, []SkippedRow{
		{Line: 2, Reason: "companion count too large"},
		{Line: 3, Reason: "companion count too large"},
		{Line: 4, Reason: "companion count too large"},
	}, res.Skipped)
}

func TestReadInviteesUnknownOverrideColumn(t *testing.T) {
	data := "Nome;Telefone\nAna Souza;11999999999\n"
	_, err := ReadInvitees("g.csv", strings.NewReader(data), Options{Override: map[Field]string{FieldName: "Nome Completo"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable("guests.pdf", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = ReadTable("guests.xlsx", strings.NewReader("not a zip"))
	assert.True(t, errors.Is(err, ErrUnparseable))

	_, err = ReadTable("guests.csv", strings.NewReader("\n\n"))
	assert.True(t, errors.Is(err, ErrUnparseable))
}

func TestParseAttending(t *testing.T) {
	for _, s := range []string{"Sim", " s ", "YES", "x", "Confirmado", "1"} {
		assert.True(t, ParseAttending(s), s)
	}
	for _, s := range []string{"", "não", "no", "0", "talvez"} {
		assert.False(t, ParseAttending(s), s)
	}
}
