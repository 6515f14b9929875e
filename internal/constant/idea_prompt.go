package constant

const (
	// Analyze, research phase. Args: raw idea, comma separated features.
	IdeaResearchPromptV1 = `
You are a market research analyst. Search the web to find real competitors, similar SaaS products,
and open-source GitHub repositories related to this product idea.

Product Idea:
"""
%s
"""
Current Features: %s

For each competitor or similar product you find:
- Provide the exact product/project name
- Provide the real, working URL
- Describe what problem they solve
- Describe their solution approach
- List their main features
- Explain how they relate to this idea
- Rate semantic similarity on a 0-10 scale

Find at least 3-5 real competitors. Be thorough and accurate.
Also provide an overall market summary and what would differentiate this idea.
`

	IdeaStructureSystemPromptV1 = `You are a product strategist. Structure the provided web research into a precise JSON format. Keep all real URLs and factual data from the research intact.`

	// Analyze, structure phase. Args: raw idea, features, research text.
	IdeaStructurePromptV1 = `
Based on the following web research about competitors and market analysis,
create a structured analysis of this product idea.

Original Idea:
"""
%s
"""
Current Features: %s

Web Research Results:
"""
%s
"""

Your task:
1. Create a professional and concise Title for the project.
2. Extract the core Problem statement (the pain point).
3. Extract the proposed Solution.
4. Structure the competitor data from the research into the required format.
   Copy every competitor name and URL exactly as written in the research.
5. Only include competitors that appear in the research.
6. Provide a market summary and differentiation factor.
`

	IdeaFallbackSystemPromptV1 = `You are a product strategist and market analyst. Provide thorough competitive analysis.`

	// Analyze, single-call fallback. Args: raw idea, features.
	IdeaFallbackPromptV1 = `
Extract and refine this product idea into a structured format and perform market analysis.

Raw Idea Text:
"""
%s
"""

Current Features: %s

Your task:
1. Create a professional and concise Title for the project.
2. Extract the core Problem statement (the pain point).
3. Extract the proposed Solution.
4. Search your knowledge for similar existing products, SaaS, or open-source GitHub repositories.
5. Evaluate them based on semantic similarity (0-10 scale).

Return a detailed JSON object with refined fields and the similarity analysis.
`

	IdeaImprovementSystemPromptV1 = `You are a product innovation expert. Suggest actionable improvements based on competitive analysis.`

	// Args: title, problem, solution, analysis summary, competitors JSON.
	IdeaImprovementPromptV1 = `
Based on the following product idea and its similarity analysis to competitors, suggest 5 high-impact improvements.
Identify gaps in current competitors that this idea could fill, or strong features from competitors that should be adapted.

Idea Title: %s
Refined Problem: %s
Refined Solution: %s
Analysis Summary: %s
Competitors: %s
`

	IdeaSpecificationSystemPromptV1 = `You are a senior software architect. Generate thorough, professional SRS documents in Markdown format.`

	// Args: title, problem, solution, final features.
	IdeaSpecificationPromptV1 = `
Generate a full Software Requirements Specification (SRS) for the following product.
Use a professional Markdown structure with:
1. Introduction (Purpose, Document Conventions)
2. Overall Description (Product Perspective, User Classes)
3. External Interface Requirements
4. System Features
5. Other Nonfunctional Requirements

Product Details:
Title: %s
Problem: %s
Solution: %s
Final Features: %s

The document should be highly detailed and professional.
`
)
