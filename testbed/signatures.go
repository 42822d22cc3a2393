package testbed

import "github.com/wippyai/wasm-signature/signature"

func NewEmptyModelSignature() *signature.Envelope[*EmptyModel] {
	return signature.NewEnvelope(NewEmptyModel(), DecodeEmptyModel)
}

func NewModelWithSingleStringFieldSignature() *signature.Envelope[*ModelWithSingleStringField] {
	return signature.NewEnvelope(NewModelWithSingleStringField(), DecodeModelWithSingleStringField)
}

func NewModelWithMultipleFieldsAccessorSignature() *signature.Envelope[*ModelWithMultipleFieldsAccessor] {
	return signature.NewEnvelope(NewModelWithMultipleFieldsAccessor(), DecodeModelWithMultipleFieldsAccessor)
}

func NewModelWithEnumSignature() *signature.Envelope[*ModelWithEnum] {
	return signature.NewEnvelope(NewModelWithEnum(), DecodeModelWithEnum)
}

func NewModelWithAllFieldTypesSignature() *signature.Envelope[*ModelWithAllFieldTypes] {
	return signature.NewEnvelope(NewModelWithAllFieldTypes(), DecodeModelWithAllFieldTypes)
}

var (
	_ signature.NewSignature[*signature.Envelope[*ModelWithSingleStringField]] = NewModelWithSingleStringFieldSignature
	_ signature.NewSignature[*signature.Envelope[*ModelWithAllFieldTypes]]     = NewModelWithAllFieldTypesSignature
)
