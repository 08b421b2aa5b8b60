package suggest

import (
	"fmt"
	"strings"
)

const promptTemplate = `Suggest me a song based on these songs: %s.
Return a YouTube link for the song you suggest and the kind of music it mainly contains. The link must not be broken.
Genre must be one of: pop, rock or rap.
Return only this JSON object: { "link": "<youtube_link>", "genre": "<genre>" }`

// BuildPrompt embeds the liked titles and the output contract.
func BuildPrompt(liked []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(liked, ", "))
}
