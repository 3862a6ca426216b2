package chat

import "strings"

const jurisdictionGuidance = `Consumer Forum Jurisdiction:
• District Forum: Complaints up to ₹1 crore
• State Commission: Complaints between ₹1-10 crore
• National Commission: Complaints above ₹10 crore

Filing Process:
1. Prepare your complaint with supporting documents
2. Calculate the value of your complaint
3. Submit to the appropriate forum
4. Pay the required fee (₹200-5000 depending on value)

Note: This is general guidance. For specific legal advice, please consult a qualified lawyer.`

const rightsGuidance = `Your Consumer Rights in India:

Under Consumer Protection Act, 2019:
• Right to be protected against unfair trade practices
• Right to be informed about product quality and price
• Right to choose from a variety of products/services
• Right to be heard and seek redressal
• Right to consumer education
• Right to seek compensation for damages

Remember: You have strong legal protection as a consumer in India.`

const generalGuidance = `I understand you have a question about consumer rights or legal procedures. While I'm experiencing technical difficulties, here's some general guidance:

For Consumer Complaints:
• Document everything thoroughly
• Keep all receipts and correspondence
• Know your rights under Consumer Protection Act, 2019
• Consider the appropriate forum based on complaint value
• Be prepared with supporting evidence

Note: This is general guidance. For specific legal advice, please consult a qualified legal professional.`

// fallbackRules are checked in order; the first rule with a matching
// keyword wins
var fallbackRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"forum", "where", "file"}, jurisdictionGuidance},
	{[]string{"right", "protection"}, rightsGuidance},
}

// Fallback picks a canned reply for message by keyword
func Fallback(message string) string {
	input := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(input, kw) {
				return rule.reply
			}
		}
	}
	return generalGuidance
}
