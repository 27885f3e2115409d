package config

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/starx-inc/airbyte/base/docpath"
	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/starx-inc/airbyte/base/utils"
)

// Validate checks a raw configuration document against the connector schema and
// normalizes it into a typed ConnectorConfig.
//
// All violations are collected into a single multierror - the validator never stops at
// the first problem. Success is all-or-nothing: either every constraint holds and the
// returned config has defaults applied, or the document is rejected in full.
// Validating an already normalized document again produces an identical result.
func Validate(raw map[string]any) (*ConnectorConfig, error) {
	v := &validator{}

	embedding := v.requiredObject(raw, "embedding", "embedding")
	processing := v.requiredObject(raw, "processing", "processing")
	indexing := v.requiredObject(raw, "indexing", "indexing")

	if embedding != nil {
		v.validateEmbedding(embedding)
	}
	if processing != nil {
		v.validateProcessing(processing)
	}
	if indexing != nil {
		v.validateIndexing(indexing)
	}
	v.optionalBool(raw, "omit_raw_text", "omit_raw_text")

	if err := v.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return normalize(raw)
}

type validator struct {
	errs *multierror.Error
}

func (v *validator) report(err error) {
	v.errs = multierror.Append(v.errs, err)
}

func (v *validator) missing(path string) {
	v.report(MissingRequiredField.New("required field is missing").
		WithProperty(PathProperty, path))
}

func (v *validator) typeMismatch(path string, expected string, value any) {
	v.report(TypeMismatch.New("expected %s, got %T", expected, value).
		WithProperty(PathProperty, path).
		WithProperty(ValueProperty, value))
}

func (v *validator) outOfRange(path string, value, min, max int) {
	v.report(OutOfRangeValue.New("value %d is out of range [%d, %d]", value, min, max).
		WithProperty(PathProperty, path).
		WithProperty(ValueProperty, value).
		WithProperty(RangeProperty, [2]int{min, max}))
}

func (v *validator) requiredObject(doc map[string]any, key, path string) map[string]any {
	value, ok := doc[key]
	if !ok || value == nil {
		v.missing(path)
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		v.typeMismatch(path, "object", value)
		return nil
	}
	return obj
}

func (v *validator) requiredString(doc map[string]any, key, path string) (string, bool) {
	value, ok := doc[key]
	if !ok || value == nil {
		v.missing(path)
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		v.typeMismatch(path, "string", value)
		return "", false
	}
	if s == "" {
		v.report(MissingRequiredField.New("required field must not be empty").
			WithProperty(PathProperty, path))
		return "", false
	}
	return s, true
}

func (v *validator) optionalString(doc map[string]any, key, path string) {
	value, ok := doc[key]
	if !ok || value == nil {
		return
	}
	if _, ok := value.(string); !ok {
		v.typeMismatch(path, "string", value)
	}
}

func (v *validator) optionalBool(doc map[string]any, key, path string) {
	value, ok := doc[key]
	if !ok || value == nil {
		return
	}
	if _, ok := value.(bool); !ok {
		v.typeMismatch(path, "boolean", value)
	}
}

// asInt accepts the numeric types a JSON decoder may produce, rejecting fractional values
func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func (v *validator) requiredInt(doc map[string]any, key, path string) (int, bool) {
	value, ok := doc[key]
	if !ok || value == nil {
		v.missing(path)
		return 0, false
	}
	n, ok := asInt(value)
	if !ok {
		v.typeMismatch(path, "integer", value)
		return 0, false
	}
	return n, true
}

func (v *validator) optionalInt(doc map[string]any, key, path string) (int, bool) {
	value, ok := doc[key]
	if !ok || value == nil {
		return 0, false
	}
	n, ok := asInt(value)
	if !ok {
		v.typeMismatch(path, "integer", value)
		return 0, false
	}
	return n, true
}

// variantMode reads the `mode` discriminator of a tagged union object. Absent
// discriminator is an ambiguous variant; any value outside knownModes is unknown.
func variantMode[M ~string](v *validator, doc map[string]any, path string, knownModes []M) (M, bool) {
	value, ok := doc["mode"]
	if !ok || value == nil {
		v.report(AmbiguousVariant.New("variant discriminator is missing").
			WithProperty(PathProperty, path+".mode"))
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		v.typeMismatch(path+".mode", "string", value)
		return "", false
	}
	mode := M(s)
	if !utils.ArrayContains(knownModes, mode) {
		v.report(UnknownVariantTag.New("unknown variant %q, expected one of %v", s, knownModes).
			WithProperty(PathProperty, path+".mode").
			WithProperty(ValueProperty, s))
		return "", false
	}
	return mode, true
}

// validateEmbedding validates only the selected variant's fields. Fields belonging to
// sibling variants are ignored even if present.
func (v *validator) validateEmbedding(doc map[string]any) {
	mode, ok := variantMode(v, doc, "embedding", embeddingModes)
	if !ok {
		return
	}
	switch mode {
	case EmbeddingModeOpenAI:
		v.requiredString(doc, "openai_key", "embedding.openai_key")
	case EmbeddingModeCohere:
		v.requiredString(doc, "cohere_key", "embedding.cohere_key")
	case EmbeddingModeFake:
		// no fields
	case EmbeddingModeAzureOpenAI:
		v.requiredString(doc, "openai_key", "embedding.openai_key")
		v.requiredString(doc, "api_base", "embedding.api_base")
		v.requiredString(doc, "deployment", "embedding.deployment")
	case EmbeddingModeOpenAICompatible:
		v.optionalString(doc, "api_key", "embedding.api_key")
		v.requiredString(doc, "base_url", "embedding.base_url")
		v.optionalString(doc, "model_name", "embedding.model_name")
		v.requiredInt(doc, "dimensions", "embedding.dimensions")
	}
}

func (v *validator) validateProcessing(doc map[string]any) {
	if size, ok := v.requiredInt(doc, "chunk_size", "processing.chunk_size"); ok {
		if size < MinChunkSize || size > MaxChunkSize {
			v.outOfRange("processing.chunk_size", size, MinChunkSize, MaxChunkSize)
		}
	}
	// chunk_overlap deliberately has no declared maximum and is not cross-checked
	// against chunk_size
	v.optionalInt(doc, "chunk_overlap", "processing.chunk_overlap")

	v.fieldPathArray(doc, "text_fields", "processing.text_fields")
	v.fieldPathArray(doc, "metadata_fields", "processing.metadata_fields")
	v.validateFieldNameMappings(doc)

	if value, ok := doc["text_splitter"]; ok && value != nil {
		splitter, ok := value.(map[string]any)
		if !ok {
			v.typeMismatch("processing.text_splitter", "object", value)
			return
		}
		v.validateTextSplitter(splitter)
	}
}

// fieldPathArray checks element type uniformity and that each element parses as a dot-path
func (v *validator) fieldPathArray(doc map[string]any, key, path string) {
	value, ok := doc[key]
	if !ok || value == nil {
		return
	}
	arr, ok := value.([]any)
	if !ok {
		v.typeMismatch(path, "array", value)
		return
	}
	for i, item := range arr {
		itemPath := fmt.Sprintf("%s.%d", path, i)
		s, ok := item.(string)
		if !ok {
			v.typeMismatch(itemPath, "string", item)
			continue
		}
		if _, err := docpath.Parse(s); err != nil {
			v.report(TypeMismatch.New("invalid dot-path %q: %v", s, err).
				WithProperty(PathProperty, itemPath).
				WithProperty(ValueProperty, s))
		}
	}
}

func (v *validator) validateFieldNameMappings(doc map[string]any) {
	value, ok := doc["field_name_mappings"]
	if !ok || value == nil {
		return
	}
	arr, ok := value.([]any)
	if !ok {
		v.typeMismatch("processing.field_name_mappings", "array", value)
		return
	}
	for i, item := range arr {
		itemPath := fmt.Sprintf("processing.field_name_mappings.%d", i)
		entry, ok := item.(map[string]any)
		if !ok {
			v.report(MalformedMappingEntry.New("expected {from_field, to_field} object, got %T", item).
				WithProperty(PathProperty, itemPath).
				WithProperty(ValueProperty, item))
			continue
		}
		for _, key := range []string{"from_field", "to_field"} {
			field, present := entry[key]
			s, isString := field.(string)
			if !present || !isString || s == "" {
				v.report(MalformedMappingEntry.New("mapping entry must carry non-empty %q", key).
					WithProperty(PathProperty, itemPath+"."+key).
					WithProperty(ValueProperty, field))
			}
		}
	}
}

func (v *validator) validateTextSplitter(doc map[string]any) {
	mode, ok := variantMode(v, doc, "processing.text_splitter", splitterModes)
	if !ok {
		return
	}
	switch mode {
	case SplitterModeSeparator:
		v.validateSeparators(doc)
		v.optionalBool(doc, "keep_separator", "processing.text_splitter.keep_separator")
	case SplitterModeMarkdown:
		if level, ok := v.optionalInt(doc, "split_level", "processing.text_splitter.split_level"); ok {
			if level < MinSplitLevel || level > MaxSplitLevel {
				v.outOfRange("processing.text_splitter.split_level", level, MinSplitLevel, MaxSplitLevel)
			}
		}
	case SplitterModeCode:
		if language, ok := v.requiredString(doc, "language", "processing.text_splitter.language"); ok {
			if !utils.ArrayContains(SplitterLanguages, language) {
				v.report(OutOfRangeValue.New("unsupported language %q, expected one of %v", language, SplitterLanguages).
					WithProperty(PathProperty, "processing.text_splitter.language").
					WithProperty(ValueProperty, language))
			}
		}
	}
}

// validateSeparators checks that every separator is a JSON string literal, so that
// escaped control characters like "\n\n" survive the configuration form
func (v *validator) validateSeparators(doc map[string]any) {
	value, ok := doc["separators"]
	if !ok || value == nil {
		return
	}
	arr, ok := value.([]any)
	if !ok {
		v.typeMismatch("processing.text_splitter.separators", "array", value)
		return
	}
	for i, item := range arr {
		itemPath := fmt.Sprintf("processing.text_splitter.separators.%d", i)
		s, ok := item.(string)
		if !ok {
			v.typeMismatch(itemPath, "string", item)
			continue
		}
		if _, err := ParseSeparator(s); err != nil {
			v.report(TypeMismatch.New("separator must be a JSON string literal like %q: %v", `"\n"`, err).
				WithProperty(PathProperty, itemPath).
				WithProperty(ValueProperty, s))
		}
	}
}

// ParseSeparator decodes a JSON string literal into the raw separator value
func ParseSeparator(literal string) (string, error) {
	var s string
	if err := jsoniter.Unmarshal([]byte(literal), &s); err != nil {
		return "", err
	}
	return s, nil
}

func (v *validator) validateIndexing(doc map[string]any) {
	v.requiredString(doc, "host", "indexing.host")
	v.optionalInt(doc, "port", "indexing.port")
	v.requiredString(doc, "database", "indexing.database")
	v.optionalString(doc, "default_schema", "indexing.default_schema")
	v.requiredString(doc, "username", "indexing.username")
	if credentials := v.requiredObject(doc, "credentials", "indexing.credentials"); credentials != nil {
		v.requiredString(credentials, "password", "indexing.credentials.password")
	}
}

// normalize decodes a document with zero violations into the typed model and applies
// schema defaults. Defaults never override explicitly supplied values.
func normalize(raw map[string]any) (*ConnectorConfig, error) {
	cfg := &ConnectorConfig{}
	if err := utils.ParseObject(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode validated config: %v", err)
	}

	embedding, err := decodeEmbedding(raw["embedding"].(map[string]any))
	if err != nil {
		return nil, err
	}
	cfg.Embedding = embedding

	processing := raw["processing"].(map[string]any)
	splitter, err := decodeTextSplitter(processing["text_splitter"])
	if err != nil {
		return nil, err
	}
	cfg.Processing.TextSplitter = splitter

	if cfg.Indexing.Port == 0 {
		cfg.Indexing.Port = DefaultPort
	}
	if cfg.Indexing.DefaultSchema == "" {
		cfg.Indexing.DefaultSchema = DefaultSchema
	}
	return cfg, nil
}

func decodeEmbedding(doc map[string]any) (EmbeddingConfig, error) {
	mode := EmbeddingMode(doc["mode"].(string))
	switch mode {
	case EmbeddingModeOpenAI:
		variant := OpenAIEmbedding{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		return variant, nil
	case EmbeddingModeCohere:
		variant := CohereEmbedding{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		return variant, nil
	case EmbeddingModeFake:
		return FakeEmbedding{Mode: EmbeddingModeFake}, nil
	case EmbeddingModeAzureOpenAI:
		variant := AzureOpenAIEmbedding{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		return variant, nil
	case EmbeddingModeOpenAICompatible:
		variant := OpenAICompatibleEmbedding{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		variant.ModelName = utils.NvlString(variant.ModelName, DefaultCompatibleModelName)
		return variant, nil
	}
	return nil, fmt.Errorf("unknown embedding mode: %q", mode)
}

func decodeTextSplitter(value any) (TextSplitterConfig, error) {
	if value == nil {
		return SeparatorSplitter{
			Mode:       SplitterModeSeparator,
			Separators: append([]string(nil), DefaultSeparators...),
		}, nil
	}
	doc := value.(map[string]any)
	mode := SplitterMode(doc["mode"].(string))
	switch mode {
	case SplitterModeSeparator:
		variant := SeparatorSplitter{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		if len(variant.Separators) == 0 {
			variant.Separators = append([]string(nil), DefaultSeparators...)
		}
		return variant, nil
	case SplitterModeMarkdown:
		variant := MarkdownSplitter{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		if variant.SplitLevel == 0 {
			variant.SplitLevel = MinSplitLevel
		}
		return variant, nil
	case SplitterModeCode:
		variant := CodeSplitter{}
		if err := utils.ParseObject(doc, &variant); err != nil {
			return nil, err
		}
		return variant, nil
	}
	return nil, fmt.Errorf("unknown text splitter mode: %q", mode)
}
