package embedded

import (
	_ "embed"
)

// Embed prompt data files
//
//go:embed data/prompts/system_prompt.txt
var SystemPromptTxt []byte

//go:embed data/prompts/cctv_instruction.txt
var CCTVInstructionTxt []byte
