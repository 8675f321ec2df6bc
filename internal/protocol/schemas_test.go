package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"sitecraft.dev/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	sliceSchema := compile("slice.schema.json")
	setBlocksSchema := compile("set_blocks.schema.json")
	resultSchema := compile("result.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"builder",
	  "capabilities":{"buffering":true,"max_batch":512}
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"S1",
	  "build_area":{"begin":[0,-64,0],"last":[99,319,99]},
	  "seed":1337,
	  "palette_digest":"deadbeef"
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var slice any
	_ = json.Unmarshal([]byte(`{
	  "type":"SLICE",
	  "request_id":"R1",
	  "rect":{"x":0,"z":0,"size_x":2,"size_z":2},
	  "heightmaps":{
	    "MOTION_BLOCKING_NO_LEAVES":[[64,64],[64,65]],
	    "OCEAN_FLOOR":[[64,64],[64,65]]
	  },
	  "biomes":[["plains","plains"],["plains","forest"]]
	}`), &slice)
	validate(sliceSchema, slice)

	var setBlocks any
	_ = json.Unmarshal([]byte(`{
	  "type":"SET_BLOCKS",
	  "protocol_version":"1.0",
	  "request_id":"R2",
	  "blocks":[
	    {"pos":[10,64,10],"block":{"id":"cobblestone"}},
	    {"pos":[10,65,10],"block":{"id":"oak_stairs","states":{"facing":"east"}}}
	  ]
	}`), &setBlocks)
	validate(setBlocksSchema, setBlocks)

	var result any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "request_id":"R2",
	  "ok":true,
	  "placed":2
	}`), &result)
	validate(resultSchema, result)
}

func TestSchemas_RejectBadSamples(t *testing.T) {
	p := filepath.Join("..", "..", "schemas", "result.schema.json")
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var bad any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "request_id":"R3",
	  "ok":false,
	  "code":"E_NOT_DEFINED"
	}`), &bad)
	if err := s.Validate(bad); err == nil {
		t.Fatalf("expected unknown error code to fail validation")
	}
}

func TestMessages_RoundTripThroughBase(t *testing.T) {
	msg := protocol.SetBlocksMsg{
		Type:            protocol.TypeSetBlocks,
		ProtocolVersion: protocol.Version,
		RequestID:       "R1",
		Blocks: []protocol.Placement{
			{Pos: [3]int{1, 64, 2}, Block: protocol.Block{ID: "stone"}},
		},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil {
		t.Fatalf("decode base: %v", err)
	}
	if base.Type != protocol.TypeSetBlocks {
		t.Fatalf("unexpected type: %q", base.Type)
	}
}
